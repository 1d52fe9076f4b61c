package model

import (
	"fmt"
	"strings"
)

// Player 球员档案
type Player struct {
	ID                 string   `json:"id"`                  // 唯一ID（创建时生成，之后不可变）
	Name               string   `json:"name"`                // 姓名
	Number             *int     `json:"number"`              // 球衣号码（可空）
	PrimaryPosition    string   `json:"primary_position"`    // 主守位
	SecondaryPositions []string `json:"secondary_positions"` // 可兼任守位
	Bats               string   `json:"bats"`                // 打击惯用手：L/R/S
	Throws             string   `json:"throws"`              // 投掷惯用手：L/R
	Status             string   `json:"status"`              // active/inactive/archived
	Notes              string   `json:"notes"`               // 教练备注
}

// PlayerCreate 创建球员请求体
type PlayerCreate struct {
	Name               string   `json:"name"`
	Number             *int     `json:"number"`
	PrimaryPosition    string   `json:"primary_position"`
	SecondaryPositions []string `json:"secondary_positions"`
	Bats               string   `json:"bats"`
	Throws             string   `json:"throws"`
	Notes              string   `json:"notes"`
}

// Validate 校验创建请求（校验失败的请求不落盘）
func (p *PlayerCreate) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if len(p.Name) < 2 || len(p.Name) > 50 {
		return fmt.Errorf("name must be between 2 and 50 characters")
	}
	if p.Number != nil && (*p.Number < 1 || *p.Number > 99) {
		return fmt.Errorf("number must be between 1 and 99")
	}
	if !Contains(ValidPositions, p.PrimaryPosition) {
		return fmt.Errorf("primary position must be one of: %s", strings.Join(ValidPositions, ", "))
	}
	for _, pos := range p.SecondaryPositions {
		if !Contains(ValidPositions, pos) {
			return fmt.Errorf("invalid secondary position %q, must be one of: %s", pos, strings.Join(ValidPositions, ", "))
		}
	}
	if !Contains(ValidHandedness, p.Bats) {
		return fmt.Errorf("bats must be one of: %s", strings.Join(ValidHandedness, ", "))
	}
	if !Contains(ValidThrows, p.Throws) {
		return fmt.Errorf("throws must be one of: %s", strings.Join(ValidThrows, ", "))
	}
	return nil
}

// PlayerUpdate 部分更新请求体，nil字段表示不修改
type PlayerUpdate struct {
	Name               *string   `json:"name"`
	Number             *int      `json:"number"`
	PrimaryPosition    *string   `json:"primary_position"`
	SecondaryPositions *[]string `json:"secondary_positions"`
	Bats               *string   `json:"bats"`
	Throws             *string   `json:"throws"`
	Status             *string   `json:"status"`
	Notes              *string   `json:"notes"`
}

// HasFields 是否携带至少一个待更新字段
func (u *PlayerUpdate) HasFields() bool {
	return u.Name != nil || u.Number != nil || u.PrimaryPosition != nil ||
		u.SecondaryPositions != nil || u.Bats != nil || u.Throws != nil ||
		u.Status != nil || u.Notes != nil
}

// Validate 校验部分更新请求
func (u *PlayerUpdate) Validate() error {
	if u.Name != nil {
		trimmed := strings.TrimSpace(*u.Name)
		if len(trimmed) < 2 || len(trimmed) > 50 {
			return fmt.Errorf("name must be between 2 and 50 characters")
		}
		*u.Name = trimmed
	}
	if u.Number != nil && (*u.Number < 1 || *u.Number > 99) {
		return fmt.Errorf("number must be between 1 and 99")
	}
	if u.PrimaryPosition != nil && !Contains(ValidPositions, *u.PrimaryPosition) {
		return fmt.Errorf("primary position must be one of: %s", strings.Join(ValidPositions, ", "))
	}
	if u.SecondaryPositions != nil {
		for _, pos := range *u.SecondaryPositions {
			if !Contains(ValidPositions, pos) {
				return fmt.Errorf("invalid secondary position %q, must be one of: %s", pos, strings.Join(ValidPositions, ", "))
			}
		}
	}
	if u.Bats != nil && !Contains(ValidHandedness, *u.Bats) {
		return fmt.Errorf("bats must be one of: %s", strings.Join(ValidHandedness, ", "))
	}
	if u.Throws != nil && !Contains(ValidThrows, *u.Throws) {
		return fmt.Errorf("throws must be one of: %s", strings.Join(ValidThrows, ", "))
	}
	if u.Status != nil && !Contains(ValidStatus, *u.Status) {
		return fmt.Errorf("status must be one of: %s", strings.Join(ValidStatus, ", "))
	}
	return nil
}

// ApplyTo 将非nil字段合并到已有球员记录（ID不允许修改）
func (u *PlayerUpdate) ApplyTo(p *Player) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Number != nil {
		p.Number = u.Number
	}
	if u.PrimaryPosition != nil {
		p.PrimaryPosition = *u.PrimaryPosition
	}
	if u.SecondaryPositions != nil {
		p.SecondaryPositions = *u.SecondaryPositions
	}
	if u.Bats != nil {
		p.Bats = *u.Bats
	}
	if u.Throws != nil {
		p.Throws = *u.Throws
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
}
