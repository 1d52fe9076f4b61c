package model

import (
	"fmt"
	"strings"
)

// 比赛来源与状态枚举。老数据没有这两个字段，读取时按规则补全。
const (
	GameSourceSchedule = "schedule" // 来自赛程导入
	GameSourceManual   = "manual"   // 手工录入

	GameStatusScheduled = "scheduled" // 未打
	GameStatusCompleted = "completed" // 已完赛
)

var (
	ValidGameSource = []string{GameSourceSchedule, GameSourceManual}
	ValidGameStatus = []string{GameStatusScheduled, GameStatusCompleted}
)

// Game 一场比赛
type Game struct {
	ID        string  `json:"id"`         // 唯一ID
	Date      string  `json:"date"`       // ISO日期字符串
	Opponent  string  `json:"opponent"`   // 对手名称
	HomeAway  string  `json:"home_away"`  // home/away
	Result    *string `json:"result"`     // W/L/T（可空）
	ScoreUs   *int    `json:"score_us"`   // 我方得分（可空）
	ScoreThem *int    `json:"score_them"` // 对方得分（可空）
	Notes     string  `json:"notes"`      // 备注
	CreatedAt string  `json:"created_at"` // 创建时间戳
	Source    string  `json:"source"`     // schedule/manual
	Status    string  `json:"status"`     // scheduled/completed
}

// Normalize 补全缺失的source/status（兼容老数据）。返回是否发生修改，
// 调用方据此决定是否回写。规则：有result即视为completed，否则scheduled；
// 来源缺省为manual。
func (g *Game) Normalize() bool {
	changed := false
	if g.Source == "" {
		g.Source = GameSourceManual
		changed = true
	}
	if g.Status == "" {
		if g.Result != nil && *g.Result != "" {
			g.Status = GameStatusCompleted
		} else {
			g.Status = GameStatusScheduled
		}
		changed = true
	}
	return changed
}

// GameCreate 创建比赛请求体
type GameCreate struct {
	Date      string  `json:"date"`
	Opponent  string  `json:"opponent"`
	HomeAway  string  `json:"home_away"`
	Result    *string `json:"result"`
	ScoreUs   *int    `json:"score_us"`
	ScoreThem *int    `json:"score_them"`
	Notes     string  `json:"notes"`
	Source    string  `json:"source"`
}

// Validate 校验创建请求
func (g *GameCreate) Validate() error {
	g.Opponent = strings.TrimSpace(g.Opponent)
	if g.Opponent == "" || len(g.Opponent) > 100 {
		return fmt.Errorf("opponent name must be between 1 and 100 characters")
	}
	if g.HomeAway == "" {
		g.HomeAway = "home"
	}
	if !Contains(ValidHomeAway, g.HomeAway) {
		return fmt.Errorf("home_away must be one of: %s", strings.Join(ValidHomeAway, ", "))
	}
	if g.Result != nil && !Contains(ValidResult, *g.Result) {
		return fmt.Errorf("result must be one of: %s", strings.Join(ValidResult, ", "))
	}
	if g.ScoreUs != nil && *g.ScoreUs < 0 {
		return fmt.Errorf("score_us must be non-negative")
	}
	if g.ScoreThem != nil && *g.ScoreThem < 0 {
		return fmt.Errorf("score_them must be non-negative")
	}
	if g.Source == "" {
		g.Source = GameSourceManual
	}
	if !Contains(ValidGameSource, g.Source) {
		return fmt.Errorf("source must be one of: %s", strings.Join(ValidGameSource, ", "))
	}
	return nil
}

// GameUpdate 部分更新请求体
type GameUpdate struct {
	Date      *string `json:"date"`
	Opponent  *string `json:"opponent"`
	HomeAway  *string `json:"home_away"`
	Result    *string `json:"result"`
	ScoreUs   *int    `json:"score_us"`
	ScoreThem *int    `json:"score_them"`
	Notes     *string `json:"notes"`
}

// HasFields 是否携带至少一个待更新字段
func (u *GameUpdate) HasFields() bool {
	return u.Date != nil || u.Opponent != nil || u.HomeAway != nil ||
		u.Result != nil || u.ScoreUs != nil || u.ScoreThem != nil || u.Notes != nil
}

// Validate 校验部分更新请求
func (u *GameUpdate) Validate() error {
	if u.Opponent != nil {
		trimmed := strings.TrimSpace(*u.Opponent)
		if trimmed == "" || len(trimmed) > 100 {
			return fmt.Errorf("opponent name must be between 1 and 100 characters")
		}
		*u.Opponent = trimmed
	}
	if u.HomeAway != nil && !Contains(ValidHomeAway, *u.HomeAway) {
		return fmt.Errorf("home_away must be one of: %s", strings.Join(ValidHomeAway, ", "))
	}
	if u.Result != nil && !Contains(ValidResult, *u.Result) {
		return fmt.Errorf("result must be one of: %s", strings.Join(ValidResult, ", "))
	}
	if u.ScoreUs != nil && *u.ScoreUs < 0 {
		return fmt.Errorf("score_us must be non-negative")
	}
	if u.ScoreThem != nil && *u.ScoreThem < 0 {
		return fmt.Errorf("score_them must be non-negative")
	}
	return nil
}

// ApplyTo 合并非nil字段，录入result后状态顺势变为completed
func (u *GameUpdate) ApplyTo(g *Game) {
	if u.Date != nil {
		g.Date = *u.Date
	}
	if u.Opponent != nil {
		g.Opponent = *u.Opponent
	}
	if u.HomeAway != nil {
		g.HomeAway = *u.HomeAway
	}
	if u.Result != nil {
		g.Result = u.Result
		g.Status = GameStatusCompleted
	}
	if u.ScoreUs != nil {
		g.ScoreUs = u.ScoreUs
	}
	if u.ScoreThem != nil {
		g.ScoreThem = u.ScoreThem
	}
	if u.Notes != nil {
		g.Notes = *u.Notes
	}
}
