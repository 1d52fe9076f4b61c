package model

// 对话角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage 一条带角色标签的对话消息
type ChatMessage struct {
	Role    string `json:"role"`    // system/user/assistant
	Content string `json:"content"` // 文本内容
}

// ChatRequest 流式对话请求体
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`        // 按顺序排列的对话历史
	Model    string        `json:"model,omitempty"` // 可选的模型覆盖，空则用配置中的首选模型
}

// LyraRequest 请求Lyra给出教练视角分析
type LyraRequest struct {
	Lineup         []LineupSlot    `json:"lineup"`          // 当前打线
	FieldPositions []FieldPosition `json:"field_positions"` // 当前守备布阵
	Players        []Player        `json:"players"`         // 全部球员（提供能力/惯用手上下文）
	Question       string          `json:"question"`        // 教练的问题（可选）
}

// LyraResponse Lyra的分析结果（模型原文，不做加工）
type LyraResponse struct {
	Analysis  string `json:"analysis"`
	Timestamp string `json:"timestamp"`
}
