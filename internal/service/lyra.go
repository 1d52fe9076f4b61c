package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"DugoutSync/internal/adapter/ollama"
	"DugoutSync/internal/model"

	"github.com/sirupsen/logrus"
)

// LyraService 教练视角助手。始终走本地Ollama（Lyra是本地微调模型，
// 不跟随网关的provider切换），每次调用按网关当前设置新建适配器，
// 这样Ollama地址和首选模型的运行时修改能即时生效。
type LyraService struct {
	gateway *AIGateway
	logger  *logrus.Logger
}

// NewLyraService 创建LyraService
func NewLyraService(gateway *AIGateway, logger *logrus.Logger) *LyraService {
	return &LyraService{gateway: gateway, logger: logger}
}

func (s *LyraService) localAdapter() *ollama.Adapter {
	settings := s.gateway.Settings()
	return ollama.NewAdapter(&settings, s.logger)
}

// CheckOllama Ollama是否在线
func (s *LyraService) CheckOllama(ctx context.Context) bool {
	return s.localAdapter().CheckConnection(ctx)
}

// ListModels Ollama本地模型名列表，出错时返回空列表
func (s *LyraService) ListModels(ctx context.Context) []string {
	names, err := s.localAdapter().ListModels(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("获取Ollama模型列表失败")
		return []string{}
	}
	return names
}

// Analyze 把当前阵容态势组装成提示词，请求Lyra给出教练视角分析
func (s *LyraService) Analyze(ctx context.Context, req *model.LyraRequest) (*model.LyraResponse, error) {
	prompt := BuildPrompt(req.Lineup, req.FieldPositions, req.Players, req.Question)
	text, err := s.localAdapter().Generate(ctx, prompt)
	if err != nil {
		s.logger.WithError(err).Error("Lyra分析失败")
		return nil, err
	}
	return &model.LyraResponse{
		Analysis:  text,
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

// BuildPrompt 把打线、守位和球员备注格式化成Lyra的上下文提示词。
// Lyra的角色约束写死在开头：只给观察和权衡，不做决定。
func BuildPrompt(lineup []model.LineupSlot, fieldPositions []model.FieldPosition, players []model.Player, question string) string {
	playerByID := make(map[string]model.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	sorted := make([]model.LineupSlot, len(lineup))
	copy(sorted, lineup)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SlotNumber < sorted[j].SlotNumber })

	var lineupText strings.Builder
	lineupText.WriteString("BATTING ORDER:\n")
	for _, slot := range sorted {
		if slot.PlayerID != nil {
			if p, ok := playerByID[*slot.PlayerID]; ok {
				lineupText.WriteString(fmt.Sprintf("%d. %s (%s/%s)\n",
					slot.SlotNumber, playerTag(p), p.Bats, p.Throws))
				continue
			}
		}
		lineupText.WriteString(fmt.Sprintf("%d. (empty)\n", slot.SlotNumber))
	}

	var fieldText strings.Builder
	fieldText.WriteString("\nDEFENSIVE POSITIONS:\n")
	for _, pos := range model.BasePositions {
		filled := false
		for _, fp := range fieldPositions {
			if fp.Position != pos || fp.PlayerID == nil {
				continue
			}
			if p, ok := playerByID[*fp.PlayerID]; ok {
				fieldText.WriteString(fmt.Sprintf("%s: %s\n", pos, playerTag(p)))
				filled = true
			}
			break
		}
		if !filled {
			fieldText.WriteString(fmt.Sprintf("%s: (empty)\n", pos))
		}
	}

	var notesText strings.Builder
	for _, p := range players {
		if strings.TrimSpace(p.Notes) == "" {
			continue
		}
		if notesText.Len() == 0 {
			notesText.WriteString("\nPLAYER NOTES:\n")
		}
		notesText.WriteString(fmt.Sprintf("%s: %s\n", playerTag(p), p.Notes))
	}

	prompt := fmt.Sprintf(`You are Lyra, a coaching perspective assistant for youth baseball.
You provide observations, patterns, and considerations.
You do NOT make decisions, optimize lineups, or give commands.
The coach is always the decision-maker.
Be concise, specific, and highlight tradeoffs when relevant.

CURRENT SITUATION:

%s
%s
%s
`, lineupText.String(), fieldText.String(), notesText.String())

	if strings.TrimSpace(question) != "" {
		prompt += "\nCOACH'S QUESTION:\n" + question + "\n"
		prompt += "\nProvide your perspective on the coach's question based on the current situation."
	} else {
		prompt += "\nProvide observations and considerations about this lineup and defensive alignment."
	}
	return prompt
}

// playerTag "#背号 姓名"，没有背号时只给姓名
func playerTag(p model.Player) string {
	if p.Number != nil {
		return fmt.Sprintf("#%d %s", *p.Number, p.Name)
	}
	return p.Name
}
