package model

// GameStats 单场单球员统计，(game_id, player_id) 作为联合主键，
// 重复保存同一对键时整条覆盖（upsert）。
type GameStats struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`

	// 打击
	AB      int `json:"ab"`      // 打数
	R       int `json:"r"`       // 得分
	H       int `json:"h"`       // 安打
	Doubles int `json:"doubles"` // 二垒打
	Triples int `json:"triples"` // 三垒打
	HR      int `json:"hr"`      // 全垒打
	RBI     int `json:"rbi"`     // 打点
	BB      int `json:"bb"`      // 四坏球
	SO      int `json:"so"`      // 三振（打者）
	SB      int `json:"sb"`      // 盗垒成功
	CS      int `json:"cs"`      // 盗垒失败

	// 投球。IP用棒球记法：小数位表示出局数（.1=1出局，.2=2出局）
	IP        float64 `json:"ip"`         // 投球局数（棒球记法）
	HAllowed  int     `json:"h_allowed"`  // 被安打
	RAllowed  int     `json:"r_allowed"`  // 失分
	ER        int     `json:"er"`         // 自责分
	BBAllowed int     `json:"bb_allowed"` // 保送
	K         int     `json:"k"`          // 三振（投手）
	Pitches   int     `json:"pitches"`    // 用球数

	// 守备
	PO int `json:"po"` // 刺杀
	A  int `json:"a"`  // 助杀
	E  int `json:"e"`  // 失误

	PositionPlayed []string `json:"position_played"` // 本场守过的位置
	InningsPlayed  float64  `json:"innings_played"`  // 上场局数
}

// GameStatsCreate 录入/更新单球员统计的请求体（game_id由路径提供）
type GameStatsCreate struct {
	PlayerID       string   `json:"player_id"`
	AB             int      `json:"ab"`
	R              int      `json:"r"`
	H              int      `json:"h"`
	Doubles        int      `json:"doubles"`
	Triples        int      `json:"triples"`
	HR             int      `json:"hr"`
	RBI            int      `json:"rbi"`
	BB             int      `json:"bb"`
	SO             int      `json:"so"`
	SB             int      `json:"sb"`
	CS             int      `json:"cs"`
	IP             float64  `json:"ip"`
	HAllowed       int      `json:"h_allowed"`
	RAllowed       int      `json:"r_allowed"`
	ER             int      `json:"er"`
	BBAllowed      int      `json:"bb_allowed"`
	K              int      `json:"k"`
	Pitches        int      `json:"pitches"`
	PO             int      `json:"po"`
	A              int      `json:"a"`
	E              int      `json:"e"`
	PositionPlayed []string `json:"position_played"`
	InningsPlayed  float64  `json:"innings_played"`
}

// ToGameStats 绑定game_id生成存储记录
func (c *GameStatsCreate) ToGameStats(gameID string) GameStats {
	return GameStats{
		GameID:         gameID,
		PlayerID:       c.PlayerID,
		AB:             c.AB,
		R:              c.R,
		H:              c.H,
		Doubles:        c.Doubles,
		Triples:        c.Triples,
		HR:             c.HR,
		RBI:            c.RBI,
		BB:             c.BB,
		SO:             c.SO,
		SB:             c.SB,
		CS:             c.CS,
		IP:             c.IP,
		HAllowed:       c.HAllowed,
		RAllowed:       c.RAllowed,
		ER:             c.ER,
		BBAllowed:      c.BBAllowed,
		K:              c.K,
		Pitches:        c.Pitches,
		PO:             c.PO,
		A:              c.A,
		E:              c.E,
		PositionPlayed: c.PositionPlayed,
		InningsPlayed:  c.InningsPlayed,
	}
}

// BulkGameStatsCreate 批量录入一场比赛多名球员统计的请求体
type BulkGameStatsCreate struct {
	GameID string            `json:"game_id"`
	Stats  []GameStatsCreate `json:"stats"`
}

// SeasonStats 赛季汇总。hitting/pitching/fielding用map表达"键可缺省"：
// 无任何比赛记录时三个子对象都是空map（序列化为{}），不是补零；
// 衍生指标（avg/era等）只在分母大于0时才会出现。
type SeasonStats struct {
	PlayerID    string         `json:"player_id"`
	GamesPlayed int            `json:"games_played"`
	Hitting     map[string]any `json:"hitting"`
	Pitching    map[string]any `json:"pitching"`
	Fielding    map[string]any `json:"fielding"`
}
