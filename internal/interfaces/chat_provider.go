package interfaces

import (
	"context"

	"DugoutSync/internal/model"
)

// ChatProvider 所有AI提供方必须实现的核心接口。
// StreamChat返回的通道是有限、一次性、只进不退的文本片段序列：
// 正常完成或终止错误时关闭；不可恢复的错误以带括号的文本片段
// 形式出现在流内（保住已经发出去的部分回答），绝不panic、
// 绝不静默返回空流。调用方取消ctx即停止上游读取。
type ChatProvider interface {
	Name() model.ProviderType                                                                  // 提供方名称
	StreamChat(ctx context.Context, messages []model.ChatMessage, modelID string) <-chan string // 流式对话
	CheckConnection(ctx context.Context) bool                                                  // 连通性探测
}
