package model

// ProviderType AI提供方类型枚举
type ProviderType string

const (
	ProviderOllama    ProviderType = "ollama"    // 本地Ollama
	ProviderOpenAI    ProviderType = "openai"    // OpenAI云端API
	ProviderAnthropic ProviderType = "anthropic" // Anthropic云端API
)

// 球场与球员字段的合法取值（与前端约定一致，不做国际化）
var (
	ValidPositions  = []string{"P", "C", "1B", "2B", "3B", "SS", "LF", "CF", "RF", "DH"}
	BasePositions   = []string{"P", "C", "1B", "2B", "3B", "SS", "LF", "CF", "RF"}
	ValidHandedness = []string{"L", "R", "S"}
	ValidThrows     = []string{"L", "R"}
	ValidStatus     = []string{"active", "inactive", "archived"}
	ValidHomeAway   = []string{"home", "away"}
	ValidResult     = []string{"W", "L", "T"}
	ValidProviders  = []string{string(ProviderOllama), string(ProviderOpenAI), string(ProviderAnthropic)}
)

// Contains 判断字符串是否在合法取值列表中
func Contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
