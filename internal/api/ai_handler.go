package api

import (
	"fmt"
	"io"
	"net/http"

	"DugoutSync/internal/config"
	"DugoutSync/internal/model"
	"DugoutSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AIHandler Lyra分析、流式对话和AI设置接口
type AIHandler struct {
	gateway *service.AIGateway
	lyra    *service.LyraService
	logger  *logrus.Logger
}

// NewAIHandler 创建 AIHandler
func NewAIHandler(gateway *service.AIGateway, lyra *service.LyraService, logger *logrus.Logger) *AIHandler {
	return &AIHandler{gateway: gateway, lyra: lyra, logger: logger}
}

// AnalyzeWithLyra 请求Lyra给出教练视角分析。Ollama离线或lyra-coach
// 模型未安装时返回503，不会把请求转给云端provider。
// POST /lyra/analyze
func (h *AIHandler) AnalyzeWithLyra(c *gin.Context) {
	var body model.LyraRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if !h.lyra.CheckOllama(ctx) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Cannot connect to Ollama. Make sure Ollama is running locally (try 'ollama serve').",
		})
		return
	}
	if !model.Contains(h.lyra.ListModels(ctx), "lyra-coach:latest") {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Lyra-coach model not found in Ollama. Please create it first.",
		})
		return
	}

	resp, err := h.lyra.Analyze(ctx, &body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Error communicating with Lyra: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StreamChat 流式对话。按当前设置选择provider，文本片段原样写出，
// 错误也以流内片段形式传达（HTTP状态始终200）。
// POST /lyra/chat/stream
func (h *AIHandler) StreamChat(c *gin.Context) {
	var body model.ChatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	stream := h.gateway.StreamChat(c.Request.Context(), body.Messages, body.Model)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		fragment, ok := <-stream
		if !ok {
			return false
		}
		_, _ = io.WriteString(w, fragment)
		return true
	})
}

// GetAISettings 当前AI设置（密钥字段原样返回，本地单用户场景不脱敏）
// GET /settings/ai
func (h *AIHandler) GetAISettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.gateway.Settings())
}

// UpdateAISettings 整体替换AI设置（切provider、改密钥或Ollama地址）
// PUT /settings/ai
func (h *AIHandler) UpdateAISettings(c *gin.Context) {
	var body config.AISettings
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.Provider != "" && !model.Contains(model.ValidProviders, body.Provider) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "provider must be one of: ollama, openai, anthropic",
		})
		return
	}
	c.JSON(http.StatusOK, h.gateway.UpdateSettings(body))
}
