package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"DugoutSync/internal/adapter"
	"DugoutSync/internal/config"
	"DugoutSync/internal/interfaces"
	"DugoutSync/internal/model"
	"DugoutSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

const (
	messagesEndpoint = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
	ssePrefix        = "data: "
	maxTokens        = 4096
)

// Adapter Anthropic云端适配器。与OpenAI的差别：system消息必须从
// 消息列表抽出来放到顶层system字段（消息列表里出现system角色会被拒），
// 且事件按type区分（content_block_delta带文本，error终止）。
type Adapter struct {
	cfg        *config.AISettings
	httpClient *http.Client
	logger     *logrus.Logger
	endpoint   string // 测试时可替换
}

func init() {
	adapter.Register(model.ProviderAnthropic, func(cfg *config.AISettings, logger *logrus.Logger) interfaces.ChatProvider {
		return NewAdapter(cfg, logger)
	})
}

// NewAdapter 创建Anthropic适配器
func NewAdapter(cfg *config.AISettings, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
		endpoint:   messagesEndpoint,
	}
}

// Name ========== 实现ChatProvider接口 ==========
func (a *Adapter) Name() model.ProviderType {
	return model.ProviderAnthropic
}

func (a *Adapter) apiKey() string {
	if a.cfg.AnthropicKey != "" {
		return a.cfg.AnthropicKey
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}

// CheckConnection 配置了凭据即视为可达，不发探测请求
func (a *Adapter) CheckConnection(ctx context.Context) bool {
	_ = ctx
	return a.apiKey() != ""
}

func (a *Adapter) StreamChat(ctx context.Context, messages []model.ChatMessage, modelID string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		a.stream(ctx, messages, modelID, out)
	}()
	return out
}

// eventPayload SSE数据行里的一条事件
type eventPayload struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

// splitSystemPrompt 抽出system消息，返回顶层system文本和过滤后的消息列表
func splitSystemPrompt(messages []model.ChatMessage) (string, []model.ChatMessage) {
	systemPrompt := ""
	filtered := make([]model.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == model.RoleSystem {
			systemPrompt = msg.Content
			continue
		}
		filtered = append(filtered, msg)
	}
	return systemPrompt, filtered
}

func (a *Adapter) stream(ctx context.Context, messages []model.ChatMessage, modelID string, out chan<- string) {
	apiKey := a.apiKey()
	if apiKey == "" {
		adapter.Emit(ctx, out, "[Error: Missing Anthropic API Key]")
		return
	}

	effective := modelID
	if effective == "" {
		effective = a.cfg.PreferredModel
	}

	systemPrompt, filtered := splitSystemPrompt(messages)
	body := map[string]any{
		"model":      effective,
		"messages":   filtered,
		"stream":     true,
		"max_tokens": maxTokens,
	}
	if systemPrompt != "" {
		body["system"] = systemPrompt
	}
	payload, err := json.Marshal(body)
	if err != nil {
		a.logger.WithError(err).Error("序列化Anthropic请求失败")
		adapter.Emit(ctx, out, "\n[AI Error: Failed to get response from Anthropic.]")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		adapter.Emit(ctx, out, "\n[AI Error: Failed to get response from Anthropic.]")
		return
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.logger.WithError(err).Warn("Anthropic请求失败")
		adapter.Emit(ctx, out, "\n[AI Error: Failed to get response from Anthropic.]")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		msg := adapter.ExtractErrorMessage(string(raw),
			fmt.Sprintf("Anthropic request failed with status %d.", resp.StatusCode))
		adapter.Emit(ctx, out, "\n[AI Error: "+msg+"]")
		return
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ssePrefix) {
			continue
		}
		raw := line[len(ssePrefix):]

		var event eventPayload
		if err := json.Unmarshal([]byte(raw), &event); err != nil {
			continue
		}
		switch event.Type {
		case "error":
			msg := adapter.ExtractErrorMessage(raw, "Anthropic returned an error.")
			adapter.Emit(ctx, out, "\n[AI Error: "+msg+"]")
			return
		case "content_block_delta":
			if event.Delta.Text != "" {
				if !adapter.Emit(ctx, out, event.Delta.Text) {
					return
				}
			}
		}
	}
}
