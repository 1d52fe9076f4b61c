package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"DugoutSync/internal/config"
	"DugoutSync/internal/model"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testAdapter(url string) *Adapter {
	return NewAdapter(&config.AISettings{
		Provider:       "ollama",
		OllamaURL:      url,
		PreferredModel: "lyra-coach:latest",
		Timeout:        5,
	}, testLogger())
}

func collect(ch <-chan string) []string {
	var out []string
	for fragment := range ch {
		out = append(out, fragment)
	}
	return out
}

func chatRequestModel(t *testing.T, r *http.Request) string {
	t.Helper()
	var body struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("decode request failed: %v", err)
	}
	return body.Model
}

// TestStreamChatForwardsContent 正常NDJSON流逐段转发
func TestStreamChatForwardsContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"message":{"content":"Hello "},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"content":"coach."},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"content":""},"done":true}` + "\n"))
	}))
	defer server.Close()

	a := testAdapter(server.URL)
	fragments := collect(a.StreamChat(context.Background(), []model.ChatMessage{{Role: "user", Content: "hi"}}, ""))

	if got := strings.Join(fragments, ""); got != "Hello coach." {
		t.Errorf("assembled %q, want %q", got, "Hello coach.")
	}
}

// TestStreamChatFallsBackOnModelNotFound 模型不存在时换下一个候选
func TestStreamChatFallsBackOnModelNotFound(t *testing.T) {
	var tried []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := chatRequestModel(t, r)
		tried = append(tried, m)
		if m != "missing:latest" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"model '` + m + `' not found"}`))
			return
		}
		w.Write([]byte(`{"message":{"content":"fallback worked"},"done":true}` + "\n"))
	}))
	defer server.Close()

	a := testAdapter(server.URL)
	fragments := collect(a.StreamChat(context.Background(), nil, "missing"))

	if got := strings.Join(fragments, ""); got != "fallback worked" {
		t.Errorf("assembled %q, want %q", got, "fallback worked")
	}
	if len(tried) != 2 || tried[0] != "missing" || tried[1] != "missing:latest" {
		t.Errorf("candidate order = %v", tried)
	}
}

// TestStreamChatExhaustsCandidates 候选耗尽时以最后一次错误收尾
func TestStreamChatExhaustsCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := chatRequestModel(t, r)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model '` + m + `' not found"}`))
	}))
	defer server.Close()

	a := testAdapter(server.URL)
	fragments := collect(a.StreamChat(context.Background(), nil, "missing"))

	if len(fragments) != 1 {
		t.Fatalf("got %d fragments, want 1: %v", len(fragments), fragments)
	}
	// 最后一个候选是兜底模型
	want := "\n[AI Error: model 'lyra-coach:latest' not found]"
	if fragments[0] != want {
		t.Errorf("terminal fragment = %q, want %q", fragments[0], want)
	}
}

// TestStreamChatHardErrorStops 非"模型不存在"错误立即终止，不再尝试候选
func TestStreamChatHardErrorStops(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"out of memory"}`))
	}))
	defer server.Close()

	a := testAdapter(server.URL)
	fragments := collect(a.StreamChat(context.Background(), nil, ""))

	if calls != 1 {
		t.Errorf("made %d requests, want 1", calls)
	}
	if len(fragments) != 1 || fragments[0] != "\n[AI Error: out of memory]" {
		t.Errorf("fragments = %v", fragments)
	}
}

// TestStreamChatConnectionFailure 连接失败给出固定提示
func TestStreamChatConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 立刻关掉，制造连接拒绝

	a := testAdapter(server.URL)
	fragments := collect(a.StreamChat(context.Background(), nil, ""))

	if len(fragments) != 1 || fragments[0] != "\n[AI Error: Connection failed. Check that Ollama is running.]" {
		t.Errorf("fragments = %v", fragments)
	}
}

// TestCandidateModels 候选顺序与去重
func TestCandidateModels(t *testing.T) {
	a := testAdapter("http://localhost:11434")

	got := a.candidateModels("mistral")
	want := []string{"mistral", "mistral:latest", "lyra-coach:latest"}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// 覆盖为空：只剩首选和兜底（两者相同则只出现一次）
	got = a.candidateModels("")
	if len(got) != 1 || got[0] != "lyra-coach:latest" {
		t.Errorf("candidates = %v, want [lyra-coach:latest]", got)
	}
}

// TestCheckConnection /api/tags可达性探测
func TestCheckConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	if !testAdapter(server.URL).CheckConnection(context.Background()) {
		t.Error("CheckConnection = false against a live server")
	}

	server.Close()
	if testAdapter(server.URL).CheckConnection(context.Background()) {
		t.Error("CheckConnection = true against a closed server")
	}
}

// TestListModels 解析模型名列表
func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"lyra-coach:latest"},{"name":"llama3:8b"}]}`))
	}))
	defer server.Close()

	names, err := testAdapter(server.URL).ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(names) != 2 || names[0] != "lyra-coach:latest" || names[1] != "llama3:8b" {
		t.Errorf("names = %v", names)
	}
}

// TestGenerate 非流式生成走/api/generate并用首选模型
func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model  string `json:"model"`
			Stream bool   `json:"stream"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Model != "lyra-coach:latest" {
			t.Errorf("model = %q, want preferred", body.Model)
		}
		if body.Stream {
			t.Error("generate should not stream")
		}
		w.Write([]byte(`{"response":"Consider the lefty matchup."}`))
	}))
	defer server.Close()

	text, err := testAdapter(server.URL).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Consider the lefty matchup." {
		t.Errorf("text = %q", text)
	}
}
