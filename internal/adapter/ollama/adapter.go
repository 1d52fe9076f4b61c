package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"DugoutSync/internal/adapter"
	"DugoutSync/internal/config"
	"DugoutSync/internal/interfaces"
	"DugoutSync/internal/model"
	"DugoutSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// 候选模型链的兜底项：配置和覆盖都不可用时最后尝试它
const (
	defaultModel = "lyra-coach:latest"
	defaultTag   = ":latest"
)

// Adapter 本地Ollama适配器。对话走/api/chat的NDJSON流，
// 带候选模型降级重试；另外提供Lyra用的非流式/api/generate。
type Adapter struct {
	cfg        *config.AISettings
	httpClient *http.Client
	logger     *logrus.Logger
}

func init() {
	adapter.Register(model.ProviderOllama, func(cfg *config.AISettings, logger *logrus.Logger) interfaces.ChatProvider {
		return NewAdapter(cfg, logger)
	})
}

// NewAdapter 创建Ollama适配器（Lyra服务需要具体类型拿Generate/ListModels）
func NewAdapter(cfg *config.AISettings, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// Name ========== 实现ChatProvider接口 ==========
func (a *Adapter) Name() model.ProviderType {
	return model.ProviderOllama
}

// StreamChat 按候选模型顺序尝试，第一个产出内容或遇到硬错误的候选即终点
func (a *Adapter) StreamChat(ctx context.Context, messages []model.ChatMessage, modelID string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		a.stream(ctx, messages, modelID, out)
	}()
	return out
}

// chatRecord /api/chat流中的一条NDJSON记录
type chatRecord struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
	Done  bool   `json:"done"`
}

// stream 候选模型重试循环。三种收场：某候选产出内容（成功返回）、
// 遇到非"模型不存在"错误（立即以错误片段终止）、候选耗尽
// （以最后一次错误文本终止）。
func (a *Adapter) stream(ctx context.Context, messages []model.ChatMessage, modelID string, out chan<- string) {
	url := strings.TrimRight(a.cfg.OllamaURL, "/") + "/api/chat"
	lastError := "Ollama returned an empty response."

	for _, candidate := range a.candidateModels(modelID) {
		payload, err := json.Marshal(map[string]any{
			"model":    candidate,
			"messages": messages,
			"stream":   true,
		})
		if err != nil {
			a.logger.WithError(err).Error("序列化Ollama请求失败")
			adapter.Emit(ctx, out, "\n[AI Error: Connection failed. Check that Ollama is running.]")
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			adapter.Emit(ctx, out, "\n[AI Error: Connection failed. Check that Ollama is running.]")
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				// 调用方取消，没有接收者了，不必报告
				return
			}
			a.logger.WithError(err).WithField("model", candidate).Warn("Ollama请求失败")
			adapter.Emit(ctx, out, "\n[AI Error: Connection failed. Check that Ollama is running.]")
			return
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastError = adapter.ExtractErrorMessage(string(body),
				fmt.Sprintf("Ollama request failed with status %d.", resp.StatusCode))
			if adapter.IsModelNotFound(lastError) {
				a.logger.WithField("model", candidate).Warn("Ollama模型不可用，尝试下一个候选")
				continue
			}
			adapter.Emit(ctx, out, "\n[AI Error: "+lastError+"]")
			return
		}

		contentSent, streamError := a.forwardStream(ctx, resp.Body, out)
		resp.Body.Close()

		if contentSent {
			return
		}
		if streamError != "" {
			lastError = streamError
			if adapter.IsModelNotFound(streamError) {
				a.logger.WithField("model", candidate).Warn("Ollama流内返回模型不存在，尝试下一个候选")
				continue
			}
			adapter.Emit(ctx, out, "\n[AI Error: "+streamError+"]")
			return
		}
		// 既没内容也没错误：换下一个候选，lastError保持不变
	}

	adapter.Emit(ctx, out, "\n[AI Error: "+lastError+"]")
}

// forwardStream 逐行转发NDJSON流。返回是否发出过内容，及流内错误文本（若有）。
func (a *Adapter) forwardStream(ctx context.Context, body io.Reader, out chan<- string) (bool, string) {
	contentSent := false
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec chatRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue // 容忍坏行
		}
		if rec.Error != "" {
			return contentSent, rec.Error
		}
		if rec.Message.Content != "" {
			if !adapter.Emit(ctx, out, rec.Message.Content) {
				return true, ""
			}
			contentSent = true
		}
		if rec.Done {
			break
		}
	}
	return contentSent, ""
}

// candidateModels 构造按序去重的候选模型列表：
// 覆盖模型 → 覆盖模型补默认tag → 配置首选 → 首选补默认tag → 兜底模型。
// 空项和重复项直接跳过。
func (a *Adapter) candidateModels(modelID string) []string {
	effective := modelID
	if effective == "" {
		effective = a.cfg.PreferredModel
	}

	raw := []string{
		effective,
		withDefaultTag(effective),
		a.cfg.PreferredModel,
		withDefaultTag(a.cfg.PreferredModel),
		defaultModel,
	}

	seen := make(map[string]bool, len(raw))
	var candidates []string
	for _, c := range raw {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		candidates = append(candidates, c)
	}
	return candidates
}

// withDefaultTag 模型名没带tag分隔符时补上默认tag，否则返回空（上层会去重跳过）
func withDefaultTag(m string) string {
	if m == "" || strings.Contains(m, ":") {
		return ""
	}
	return m + defaultTag
}

// CheckConnection 有界超时GET /api/tags，200即认为Ollama在线
func (a *Adapter) CheckConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(a.cfg.OllamaURL, "/")+"/api/tags", nil)
	if err != nil {
		return false
	}
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// ListModels 列出Ollama本地已安装的模型名（探测首选模型是否就绪）
func (a *Adapter) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(a.cfg.OllamaURL, "/")+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求Ollama模型列表失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Ollama模型列表返回状态%d", resp.StatusCode)
	}

	var parsed struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析Ollama模型列表失败: %w", err)
	}
	names := make([]string, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Generate 非流式单次补全（/api/generate），Lyra分析用
func (a *Adapter) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model":  a.cfg.PreferredModel,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0.7,
			"top_p":       0.9,
		},
	})
	if err != nil {
		return "", fmt.Errorf("序列化生成请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(a.cfg.OllamaURL, "/")+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求Ollama生成接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Ollama生成接口返回状态%d: %s",
			resp.StatusCode, adapter.ExtractErrorMessage(string(body), "unknown error"))
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("解析Ollama生成响应失败: %w", err)
	}
	return parsed.Response, nil
}
