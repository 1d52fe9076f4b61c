package openai

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
	chatEndpoint = "https://api.openai.com/v1/chat/completions"
	ssePrefix    = "data: "
	doneSentinel = "data: [DONE]"
)

// Adapter OpenAI云端适配器。SSE流式对话，Key缺失时不发任何网络请求，
// 直接在流内给出一条说明性错误片段。
type Adapter struct {
	cfg        *config.AISettings
	httpClient *http.Client
	logger     *logrus.Logger
	endpoint   string // 测试时可替换
}

func init() {
	adapter.Register(model.ProviderOpenAI, func(cfg *config.AISettings, logger *logrus.Logger) interfaces.ChatProvider {
		return NewAdapter(cfg, logger)
	})
}

// NewAdapter 创建OpenAI适配器
func NewAdapter(cfg *config.AISettings, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
		endpoint:   chatEndpoint,
	}
}

// Name ========== 实现ChatProvider接口 ==========
func (a *Adapter) Name() model.ProviderType {
	return model.ProviderOpenAI
}

// apiKey 配置优先，环境变量兜底
func (a *Adapter) apiKey() string {
	if a.cfg.OpenAIKey != "" {
		return a.cfg.OpenAIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// CheckConnection 云端提供方不发探测请求，配置了凭据即视为可达
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

// deltaPayload SSE数据行里的一条增量记录
type deltaPayload struct {
	Error   json.RawMessage `json:"error"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (a *Adapter) stream(ctx context.Context, messages []model.ChatMessage, modelID string, out chan<- string) {
	apiKey := a.apiKey()
	if apiKey == "" {
		adapter.Emit(ctx, out, "[Error: Missing OpenAI API Key]")
		return
	}

	effective := modelID
	if effective == "" {
		effective = a.cfg.PreferredModel
	}
	payload, err := json.Marshal(map[string]any{
		"model":    effective,
		"messages": messages,
		"stream":   true,
	})
	if err != nil {
		a.logger.WithError(err).Error("序列化OpenAI请求失败")
		adapter.Emit(ctx, out, "\n[AI Error: Failed to get response from OpenAI.]")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		adapter.Emit(ctx, out, "\n[AI Error: Failed to get response from OpenAI.]")
		return
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.logger.WithError(err).Warn("OpenAI请求失败")
		adapter.Emit(ctx, out, "\n[AI Error: Failed to get response from OpenAI.]")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		msg := adapter.ExtractErrorMessage(string(body),
			fmt.Sprintf("OpenAI request failed with status %d.", resp.StatusCode))
		adapter.Emit(ctx, out, "\n[AI Error: "+msg+"]")
		return
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == doneSentinel {
			continue
		}
		if !strings.HasPrefix(line, ssePrefix) {
			continue
		}
		raw := line[len(ssePrefix):]

		var data deltaPayload
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			continue
		}
		if len(data.Error) > 0 && string(data.Error) != "null" {
			msg := adapter.ExtractErrorMessage(raw, "OpenAI returned an error.")
			adapter.Emit(ctx, out, "\n[AI Error: "+msg+"]")
			return
		}
		if len(data.Choices) > 0 && data.Choices[0].Delta.Content != "" {
			if !adapter.Emit(ctx, out, data.Choices[0].Delta.Content) {
				return
			}
		}
	}
}
