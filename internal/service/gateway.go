package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"DugoutSync/internal/adapter"
	"DugoutSync/internal/config"
	"DugoutSync/internal/interfaces"
	"DugoutSync/internal/model"

	"github.com/sirupsen/logrus"
)

// AIGateway AI提供方网关：持有运行时AI设置，按当前provider从工厂注册表
// 取适配器转发对话。设置可在运行期整体替换（PUT /settings/ai），
// 读写用RWMutex隔离，正在进行的流继续用各自启动时的快照。
type AIGateway struct {
	mu       sync.RWMutex
	settings config.AISettings
	logger   *logrus.Logger
}

// NewAIGateway 创建AIGateway
func NewAIGateway(settings config.AISettings, logger *logrus.Logger) *AIGateway {
	return &AIGateway{settings: settings, logger: logger}
}

// Settings 当前设置的副本
func (g *AIGateway) Settings() config.AISettings {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.settings
}

// UpdateSettings 整体替换运行时设置。请求体省略的字段不能落成零值：
// provider/ollama_url/preferred_model缺省时补回默认值（本地Ollama +
// lyra-coach），否则切回ollama时会拿空URL和空模型名发请求。
// Timeout和Proxy不经API暴露，传入值为零时保留旧值。
func (g *AIGateway) UpdateSettings(s config.AISettings) config.AISettings {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s.Provider == "" {
		s.Provider = string(model.ProviderOllama)
	}
	if s.OllamaURL == "" {
		s.OllamaURL = "http://localhost:11434"
	}
	if s.PreferredModel == "" {
		s.PreferredModel = "lyra-coach:latest"
	}
	if s.Timeout == 0 {
		s.Timeout = g.settings.Timeout
	}
	if s.Proxy == "" {
		s.Proxy = g.settings.Proxy
	}
	g.settings = s
	g.logger.WithFields(logrus.Fields{
		"provider": s.Provider,
		"model":    s.PreferredModel,
	}).Info("AI设置已更新")
	return g.settings
}

// provider 按当前设置构造适配器，provider未注册时返回nil
func (g *AIGateway) provider() (interfaces.ChatProvider, config.AISettings) {
	settings := g.Settings()
	factory, ok := adapter.GetFactory(model.ProviderType(settings.Provider))
	if !ok {
		return nil, settings
	}
	return factory(&settings, g.logger), settings
}

// StreamChat 把对话转发给当前provider的适配器。provider未知时
// 返回只含一条错误片段的流，与适配器的流内错误约定一致。
func (g *AIGateway) StreamChat(ctx context.Context, messages []model.ChatMessage, modelID string) <-chan string {
	p, settings := g.provider()
	if p == nil {
		out := make(chan string, 1)
		out <- fmt.Sprintf("Error: Unknown provider '%s'", settings.Provider)
		close(out)
		return out
	}
	return p.StreamChat(ctx, messages, modelID)
}

// Chat 非流式对话：把流排干后拼成完整文本
func (g *AIGateway) Chat(ctx context.Context, messages []model.ChatMessage, modelID string) string {
	var sb strings.Builder
	for fragment := range g.StreamChat(ctx, messages, modelID) {
		sb.WriteString(fragment)
	}
	return sb.String()
}

// CheckConnection 当前provider是否可用（未知provider视为不可用）
func (g *AIGateway) CheckConnection(ctx context.Context) bool {
	p, _ := g.provider()
	if p == nil {
		return false
	}
	return p.CheckConnection(ctx)
}
