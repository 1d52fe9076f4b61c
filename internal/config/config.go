package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`  // 服务器配置
	Storage StorageConfig `mapstructure:"storage"` // JSON文件存储配置
	AI      AISettings    `mapstructure:"ai"`      // AI提供方配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// StorageConfig JSON文件存储配置
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"` // 数据目录（players.json等文件所在位置）
}

// AISettings AI提供方配置。同时作为 GET/PUT /settings/ai 的请求/响应体，
// 敏感Key可留空，运行时从环境变量兜底（OPENAI_API_KEY / ANTHROPIC_API_KEY）。
type AISettings struct {
	Provider       string `mapstructure:"provider" json:"provider"`                     // 激活的提供方：ollama/openai/anthropic
	OllamaURL      string `mapstructure:"ollama_url" json:"ollama_url"`                 // 本地Ollama基础地址
	PreferredModel string `mapstructure:"preferred_model" json:"preferred_model"`       // 首选模型标识
	OpenAIKey      string `mapstructure:"openai_key" json:"openai_key,omitempty"`       // OpenAI API Key（可选）
	AnthropicKey   string `mapstructure:"anthropic_key" json:"anthropic_key,omitempty"` // Anthropic API Key（可选）
	Timeout        int    `mapstructure:"timeout" json:"-"`                             // 单次请求超时（秒）
	Proxy          string `mapstructure:"proxy" json:"-"`                               // 代理地址（可选）
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	setDefaults()
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults 与本地单机部署一致的默认值
func setDefaults() {
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("storage.data_dir", "data")
	viper.SetDefault("ai.provider", "ollama")
	viper.SetDefault("ai.ollama_url", "http://localhost:11434")
	viper.SetDefault("ai.preferred_model", "lyra-coach:latest")
	viper.SetDefault("ai.timeout", 60)
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AI.AnthropicKey = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.AI.OllamaURL = v
	}
	if v := os.Getenv("DUGOUT_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
}
