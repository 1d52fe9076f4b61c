package repository

import (
	"DugoutSync/internal/model"
	"DugoutSync/internal/storage"
)

// ConfigurationRepository 已保存配置仓储。Save按ID upsert，
// 同ID后写覆盖先写。
type ConfigurationRepository interface {
	List() ([]model.Configuration, error)
	// GetByID 未找到返回nil
	GetByID(configID string) (*model.Configuration, error)
	// Save 新增或整条覆盖同ID配置
	Save(config model.Configuration) error
	// Delete 返回是否找到
	Delete(configID string) (bool, error)
}

type configurationRepository struct {
	store *storage.Store
}

// NewConfigurationRepository 创建ConfigurationRepository实例
func NewConfigurationRepository(store *storage.Store) ConfigurationRepository {
	return &configurationRepository{store: store}
}

func (r *configurationRepository) List() ([]model.Configuration, error) {
	var configs []model.Configuration
	if err := r.store.Load(storage.FileConfigurations, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *configurationRepository) GetByID(configID string) (*model.Configuration, error) {
	configs, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range configs {
		if configs[i].ID == configID {
			return &configs[i], nil
		}
	}
	return nil, nil
}

// Save 按ID替换已有条目，不存在则追加到尾部（保持插入顺序）
func (r *configurationRepository) Save(config model.Configuration) error {
	configs, err := r.List()
	if err != nil {
		return err
	}

	replaced := false
	for i := range configs {
		if configs[i].ID == config.ID {
			configs[i] = config
			replaced = true
			break
		}
	}
	if !replaced {
		configs = append(configs, config)
	}
	return r.store.Save(storage.FileConfigurations, configs)
}

func (r *configurationRepository) Delete(configID string) (bool, error) {
	configs, err := r.List()
	if err != nil {
		return false, err
	}
	kept := configs[:0]
	for _, c := range configs {
		if c.ID != configID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(configs) {
		return false, nil
	}
	return true, r.store.Save(storage.FileConfigurations, kept)
}
