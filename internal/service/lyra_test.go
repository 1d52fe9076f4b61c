package service

import (
	"strings"
	"testing"

	"DugoutSync/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// TestBuildPrompt 打线按棒次排序，守位按固定顺序，备注只列有内容的球员
func TestBuildPrompt(t *testing.T) {
	players := []model.Player{
		{ID: "p1", Name: "Casey Jones", Number: intPtr(12), Bats: "L", Throws: "R", Notes: "strong arm"},
		{ID: "p2", Name: "Sam Lee", Number: intPtr(7), Bats: "R", Throws: "R"},
	}
	lineup := []model.LineupSlot{
		{SlotNumber: 3, PlayerID: strPtr("p2")},
		{SlotNumber: 1, PlayerID: strPtr("p1")},
		{SlotNumber: 2},
	}
	field := []model.FieldPosition{
		{Position: "SS", PlayerID: strPtr("p1")},
		{Position: "P"},
	}

	prompt := BuildPrompt(lineup, field, players, "")

	if !strings.Contains(prompt, "You are Lyra") {
		t.Error("missing persona preamble")
	}

	// 打线按棒次重排
	first := strings.Index(prompt, "1. #12 Casey Jones (L/R)")
	second := strings.Index(prompt, "2. (empty)")
	third := strings.Index(prompt, "3. #7 Sam Lee (R/R)")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("lineup lines missing:\n%s", prompt)
	}
	if !(first < second && second < third) {
		t.Error("lineup not sorted by slot number")
	}

	if !strings.Contains(prompt, "SS: #12 Casey Jones") {
		t.Error("field assignment missing")
	}
	if !strings.Contains(prompt, "P: (empty)") {
		t.Error("empty position missing")
	}

	if !strings.Contains(prompt, "#12 Casey Jones: strong arm") {
		t.Error("player note missing")
	}
	if strings.Contains(prompt, "Sam Lee:") {
		t.Error("player without notes listed in notes section")
	}

	if !strings.Contains(prompt, "observations and considerations about this lineup") {
		t.Error("default closing instruction missing")
	}
	if strings.Contains(prompt, "COACH'S QUESTION") {
		t.Error("question section present without a question")
	}
}

// TestBuildPromptWithQuestion 有问题时附加问题段落
func TestBuildPromptWithQuestion(t *testing.T) {
	prompt := BuildPrompt(nil, nil, nil, "Should I move my cleanup hitter up?")

	if !strings.Contains(prompt, "COACH'S QUESTION:\nShould I move my cleanup hitter up?") {
		t.Error("question section missing")
	}
	if !strings.Contains(prompt, "perspective on the coach's question") {
		t.Error("question closing instruction missing")
	}
}
