package api

import (
	"net/http"

	"DugoutSync/internal/model"
	"DugoutSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthHandler 健康检查接口
type HealthHandler struct {
	lyra   *service.LyraService
	logger *logrus.Logger
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(lyra *service.LyraService, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{lyra: lyra, logger: logger}
}

// Root 根路径存活探测
// GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Dugout Baseball Coaching API",
		"version": "1.0.0",
	})
}

// Health 健康检查：API自身 + Ollama可达性 + Lyra模型就绪状态
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	ollamaConnected := h.lyra.CheckOllama(ctx)
	models := []string{}
	if ollamaConnected {
		models = h.lyra.ListModels(ctx)
	}

	c.JSON(http.StatusOK, gin.H{
		"api":                  "ok",
		"ollama_connected":     ollamaConnected,
		"ollama_models":        models,
		"lyra_model_available": model.Contains(models, "lyra-coach:latest"),
	})
}
