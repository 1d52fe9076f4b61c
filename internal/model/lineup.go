package model

import (
	"fmt"
	"strings"
)

// LineupSlot 打击顺序中的一个棒次。player_id 为弱引用，
// 球员被删除时置回null，槽位本身不会消失。
type LineupSlot struct {
	SlotNumber int     `json:"slot_number"` // 棒次：1-9
	PlayerID   *string `json:"player_id"`   // 球员ID（可空）
}

// FieldPosition 一个守备位置的分配
type FieldPosition struct {
	Position string  `json:"position"`  // P/C/1B/2B/3B/SS/LF/CF/RF/DH
	PlayerID *string `json:"player_id"` // 球员ID（可空）
}

// LineupUpdate 整体替换打线的请求体
type LineupUpdate struct {
	Lineup []LineupSlot `json:"lineup"`
}

// FieldUpdate 整体替换守备布阵的请求体
type FieldUpdate struct {
	FieldPositions []FieldPosition `json:"field_positions"`
}

// ValidateLineup 完整打线必须恰好9个棒次，覆盖1-9且不重复
func ValidateLineup(lineup []LineupSlot) error {
	if len(lineup) != 9 {
		return fmt.Errorf("lineup must have exactly 9 slots")
	}
	seen := make(map[int]bool, 9)
	for _, slot := range lineup {
		if slot.SlotNumber < 1 || slot.SlotNumber > 9 || seen[slot.SlotNumber] {
			return fmt.Errorf("lineup must have slots numbered 1-9 (no duplicates)")
		}
		seen[slot.SlotNumber] = true
	}
	return nil
}

// ValidateFieldSet 守备布阵必须恰好覆盖9个基础守位；是否带DH由调用方决定，
// 带了就必须恰好是基础9位+DH（use_dh标志与此处的一致性由前端保证）。
func ValidateFieldSet(positions []FieldPosition) error {
	provided := make(map[string]bool, len(positions))
	for _, fp := range positions {
		if !Contains(ValidPositions, fp.Position) {
			return fmt.Errorf("position must be one of: %s", strings.Join(ValidPositions, ", "))
		}
		if provided[fp.Position] {
			return fmt.Errorf("duplicate position %q", fp.Position)
		}
		provided[fp.Position] = true
	}

	expected := make(map[string]bool, 10)
	for _, pos := range BasePositions {
		expected[pos] = true
	}
	if provided["DH"] {
		expected["DH"] = true
	}

	if len(provided) != len(expected) {
		return fmt.Errorf("must provide exactly these positions: %s", expectedList(expected))
	}
	for pos := range expected {
		if !provided[pos] {
			return fmt.Errorf("must provide exactly these positions: %s", expectedList(expected))
		}
	}
	return nil
}

// expectedList 按固定顺序输出期望守位集合，保证错误信息稳定
func expectedList(expected map[string]bool) string {
	var out []string
	for _, pos := range ValidPositions {
		if expected[pos] {
			out = append(out, pos)
		}
	}
	return strings.Join(out, ", ")
}
