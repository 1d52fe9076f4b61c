package adapter

import (
	"context"
	"encoding/json"
	"strings"
)

// ExtractErrorMessage 从原始响应体中提取给用户看的错误文本。
// 三个适配器共用这一个归一化入口：先尝试按JSON对象解析，
// 依次找error/message/detail下的非空字符串；解析失败或没有命中
// 就退回去掉首尾空白的原始响应体；还是空则用调用方给的默认文案。
func ExtractErrorMessage(payload, defaultMsg string) string {
	if payload == "" {
		return defaultMsg
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(payload), &parsed); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			if v, ok := parsed[key].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	cleaned := strings.TrimSpace(payload)
	if cleaned == "" {
		return defaultMsg
	}
	return cleaned
}

// IsModelNotFound 判断错误文本是否"模型不存在"（大小写不敏感的子串匹配）。
// 命中时Ollama侧允许换下一个候选模型重试，其余错误一律立即终止。
func IsModelNotFound(errText string) bool {
	lowered := strings.ToLower(errText)
	return strings.Contains(lowered, "model") && strings.Contains(lowered, "not found")
}

// Emit 向片段通道发送一段文本，调用方取消时放弃发送。
// 返回false表示ctx已结束，生产者应立刻收尾。
func Emit(ctx context.Context, out chan<- string, fragment string) bool {
	select {
	case out <- fragment:
		return true
	case <-ctx.Done():
		return false
	}
}
