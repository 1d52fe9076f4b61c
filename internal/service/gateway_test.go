package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"DugoutSync/internal/adapter"
	"DugoutSync/internal/config"
	"DugoutSync/internal/model"

	// 测试里需要ollama工厂已注册
	_ "DugoutSync/internal/adapter/ollama"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// TestGatewayUnknownProvider 未知provider返回单条错误片段的流
func TestGatewayUnknownProvider(t *testing.T) {
	g := NewAIGateway(config.AISettings{Provider: "skynet"}, testLogger())

	var fragments []string
	for fragment := range g.StreamChat(context.Background(), nil, "") {
		fragments = append(fragments, fragment)
	}
	if len(fragments) != 1 || fragments[0] != "Error: Unknown provider 'skynet'" {
		t.Errorf("fragments = %v", fragments)
	}
	if g.CheckConnection(context.Background()) {
		t.Error("CheckConnection = true for unknown provider")
	}
}

// TestGatewayChatDrainsStream Chat把流拼成完整文本
func TestGatewayChatDrainsStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"Line "},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"content":"drive."},"done":true}` + "\n"))
	}))
	defer server.Close()

	g := NewAIGateway(config.AISettings{
		Provider:       "ollama",
		OllamaURL:      server.URL,
		PreferredModel: "lyra-coach:latest",
		Timeout:        5,
	}, testLogger())

	if got := g.Chat(context.Background(), nil, ""); got != "Line drive." {
		t.Errorf("Chat = %q, want %q", got, "Line drive.")
	}
}

// TestGatewayUpdateSettings 整体替换；Timeout/Proxy零值时保留旧值
func TestGatewayUpdateSettings(t *testing.T) {
	g := NewAIGateway(config.AISettings{
		Provider:       "ollama",
		OllamaURL:      "http://localhost:11434",
		PreferredModel: "lyra-coach:latest",
		Timeout:        60,
		Proxy:          "http://proxy:8080",
	}, testLogger())

	updated := g.UpdateSettings(config.AISettings{
		Provider:       "openai",
		PreferredModel: "gpt-4o",
		OpenAIKey:      "sk-test",
	})

	if updated.Provider != "openai" || updated.PreferredModel != "gpt-4o" || updated.OpenAIKey != "sk-test" {
		t.Errorf("settings not replaced: %+v", updated)
	}
	if updated.Timeout != 60 {
		t.Errorf("Timeout = %d, want preserved 60", updated.Timeout)
	}
	if updated.Proxy != "http://proxy:8080" {
		t.Errorf("Proxy = %q, want preserved", updated.Proxy)
	}

	// Settings返回副本
	snapshot := g.Settings()
	snapshot.Provider = "mutated"
	if g.Settings().Provider != "openai" {
		t.Error("Settings returned a mutable reference")
	}
}

// TestGatewayUpdateSettingsBackfillsDefaults 请求体省略的字段不落成零值：
// provider/ollama_url/preferred_model补回默认值，之后切回ollama仍可用
func TestGatewayUpdateSettingsBackfillsDefaults(t *testing.T) {
	g := NewAIGateway(config.AISettings{
		Provider:       "ollama",
		OllamaURL:      "http://localhost:11434",
		PreferredModel: "lyra-coach:latest",
		Timeout:        60,
	}, testLogger())

	// 只给provider和key，其余字段省略
	updated := g.UpdateSettings(config.AISettings{
		Provider:  "openai",
		OpenAIKey: "sk-test",
	})
	if updated.OllamaURL != "http://localhost:11434" {
		t.Errorf("OllamaURL = %q, want default backfilled", updated.OllamaURL)
	}
	if updated.PreferredModel != "lyra-coach:latest" {
		t.Errorf("PreferredModel = %q, want default backfilled", updated.PreferredModel)
	}

	// provider整个省略：回到默认的ollama而不是空串
	updated = g.UpdateSettings(config.AISettings{OllamaURL: "http://localhost:11434"})
	if updated.Provider != "ollama" {
		t.Errorf("Provider = %q, want ollama", updated.Provider)
	}
	// 补回的provider必须命中已注册的工厂，不能落进未知provider分支
	if _, ok := adapter.GetFactory(model.ProviderType(updated.Provider)); !ok {
		t.Errorf("no factory registered for backfilled provider %q", updated.Provider)
	}
}
