package service

import (
	"math"
	"sort"

	"DugoutSync/internal/model"
	"DugoutSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// ConvertBaseballIP 把棒球记法的投球局数换算成真实分数局数。
// 棒球记法里小数位记的是出局数而不是十分位：
// 1.0 = 1局整（3出局）、1.1 = 1局+1出局 = 1⅓ = 1.333…、1.2 = 1⅔ = 1.667…。
// 换算：整数部分为完整局，round((小数部分)×10)为出局数，出局数/3补回局数。
// 对合计值做一次换算即可——出局数按十分位累加在最终换算前是自洽的。
func ConvertBaseballIP(ip float64) float64 {
	whole := math.Trunc(ip)
	outs := math.Round((ip - whole) * 10)
	return whole + outs/3.0
}

// AggregateSeasonStats 把一名球员的全部单场统计汇总成赛季数据。
// 纯函数：非负输入下不会出错，球员是否存在由调用方先行确认。
// 无记录时返回games_played=0和三个空子对象（表示"没有数据"而非"全是0"）。
func AggregateSeasonStats(playerID string, records []model.GameStats) model.SeasonStats {
	season := model.SeasonStats{
		PlayerID:    playerID,
		GamesPlayed: len(records),
		Hitting:     map[string]any{},
		Pitching:    map[string]any{},
		Fielding:    map[string]any{},
	}
	if len(records) == 0 {
		return season
	}

	var ab, r, h, doubles, triples, hr, rbi, bb, so, sb, cs int
	var ip float64
	var hAllowed, rAllowed, er, bbAllowed, k, pitches int
	var po, assists, errors int
	for _, gs := range records {
		ab += gs.AB
		r += gs.R
		h += gs.H
		doubles += gs.Doubles
		triples += gs.Triples
		hr += gs.HR
		rbi += gs.RBI
		bb += gs.BB
		so += gs.SO
		sb += gs.SB
		cs += gs.CS

		ip += gs.IP
		hAllowed += gs.HAllowed
		rAllowed += gs.RAllowed
		er += gs.ER
		bbAllowed += gs.BBAllowed
		k += gs.K
		pitches += gs.Pitches

		po += gs.PO
		assists += gs.A
		errors += gs.E
	}

	season.Hitting = map[string]any{
		"ab": ab, "r": r, "h": h, "doubles": doubles, "triples": triples,
		"hr": hr, "rbi": rbi, "bb": bb, "so": so, "sb": sb, "cs": cs,
	}
	if ab > 0 {
		season.Hitting["avg"] = round3(float64(h) / float64(ab))

		// 长打率：单打=安打-二垒打-三垒打-全垒打
		totalBases := (h - doubles - triples - hr) + doubles*2 + triples*3 + hr*4
		season.Hitting["slg"] = round3(float64(totalBases) / float64(ab))

		// OBP = (H + BB) / (AB + BB)
		obp := 0.0
		if pa := ab + bb; pa > 0 {
			obp = round3(float64(h+bb) / float64(pa))
			season.Hitting["obp"] = obp
		}
		season.Hitting["ops"] = round3(obp + season.Hitting["slg"].(float64))
	}

	season.Pitching = map[string]any{
		"ip": ip, "h": hAllowed, "r": rAllowed, "er": er,
		"bb": bbAllowed, "k": k, "pitches": pitches,
	}
	if ip > 0 {
		// 棒球记法的合计值换算成真实局数后再算比率
		actualIP := ConvertBaseballIP(ip)
		season.Pitching["era"] = round2(float64(er) * 9 / actualIP)
		season.Pitching["whip"] = round2(float64(hAllowed+bbAllowed) / actualIP)
	}

	season.Fielding = map[string]any{"po": po, "a": assists, "e": errors}
	if po+assists+errors > 0 {
		season.Fielding["fpct"] = round3(float64(po+assists) / float64(po+assists+errors))
	}

	return season
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// StatsService 赛季统计服务：聚合 + 按比赛日期排序的个人比赛日志
type StatsService struct {
	statsRepo repository.GameStatsRepository
	gameRepo  repository.GameRepository
	logger    *logrus.Logger
}

// NewStatsService 创建StatsService
func NewStatsService(statsRepo repository.GameStatsRepository, gameRepo repository.GameRepository, logger *logrus.Logger) *StatsService {
	return &StatsService{statsRepo: statsRepo, gameRepo: gameRepo, logger: logger}
}

// PlayerSeason 汇总一名球员的赛季数据
func (s *StatsService) PlayerSeason(playerID string) (model.SeasonStats, error) {
	records, err := s.statsRepo.ByPlayer(playerID)
	if err != nil {
		return model.SeasonStats{}, err
	}
	return AggregateSeasonStats(playerID, records), nil
}

// PlayerGameLog 一名球员的全部单场统计，按比赛日期倒序（最近的在前）
func (s *StatsService) PlayerGameLog(playerID string) ([]model.GameStats, error) {
	records, err := s.statsRepo.ByPlayer(playerID)
	if err != nil {
		return nil, err
	}
	games, err := s.gameRepo.List()
	if err != nil {
		return nil, err
	}
	dateByGame := make(map[string]string, len(games))
	for _, g := range games {
		dateByGame[g.ID] = g.Date
	}
	sort.SliceStable(records, func(i, j int) bool {
		return dateByGame[records[i].GameID] > dateByGame[records[j].GameID]
	})
	return records, nil
}
