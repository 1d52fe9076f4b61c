package model

import (
	"fmt"
	"strings"
)

// Configuration 一套有名字的打线+守备布阵快照。
// 内嵌的lineup/field是值拷贝而非引用，球员删除级联时需要逐份修补。
type Configuration struct {
	ID                string          `json:"id"`                  // 唯一ID，集合按ID upsert
	Name              string          `json:"name"`                // 配置名（如"Starting Lineup"）
	Lineup            []LineupSlot    `json:"lineup"`              // 9棒次快照
	FieldPositions    []FieldPosition `json:"field_positions"`     // 守备布阵快照
	UseDH             bool            `json:"use_dh"`              // 是否使用DH
	Notes             string          `json:"notes"`               // 备注
	LastUsedTimestamp string          `json:"last_used_timestamp"` // 每次加载时刷新
}

// ConfigurationCreate 保存配置的请求体
type ConfigurationCreate struct {
	Name           string          `json:"name"`
	Lineup         []LineupSlot    `json:"lineup"`
	FieldPositions []FieldPosition `json:"field_positions"`
	UseDH          bool            `json:"use_dh"`
	Notes          string          `json:"notes"`
}

// Validate 校验配置创建请求
func (c *ConfigurationCreate) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" || len(c.Name) > 100 {
		return fmt.Errorf("configuration name must be between 1 and 100 characters")
	}
	if err := ValidateLineup(c.Lineup); err != nil {
		return err
	}
	return ValidateFieldSet(c.FieldPositions)
}
