// internal/adapter/registry.go
package adapter

import (
	"fmt"

	"DugoutSync/internal/config"
	"DugoutSync/internal/interfaces"
	"DugoutSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Factory 提供方适配器工厂函数签名
// 入参：AI配置快照、日志实例
// 出参：实现ChatProvider接口的适配器实例
type Factory func(cfg *config.AISettings, logger *logrus.Logger) interfaces.ChatProvider

// ========== 全局工厂函数注册表（各适配器包init时注册） ==========
var factoryRegistry = make(map[model.ProviderType]Factory)

// Register 供适配器init函数调用，注册工厂函数
func Register(provider model.ProviderType, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("提供方%s的工厂函数不能为nil", provider))
	}
	if _, exists := factoryRegistry[provider]; exists {
		logrus.Warnf("提供方%s的适配器已注册，将覆盖原有实现", provider)
	}
	factoryRegistry[provider] = factory
}

// GetFactory 获取指定提供方的工厂函数
func GetFactory(provider model.ProviderType) (Factory, bool) {
	factory, ok := factoryRegistry[provider]
	return factory, ok
}

// ListFactories 列出所有已注册的提供方
func ListFactories() []model.ProviderType {
	var providers []model.ProviderType
	for p := range factoryRegistry {
		providers = append(providers, p)
	}
	return providers
}
