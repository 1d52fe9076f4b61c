package repository

import (
	"DugoutSync/internal/model"
	"DugoutSync/internal/storage"
)

// statKey 统计记录的联合主键
type statKey struct {
	gameID   string
	playerID string
}

// GameStatsRepository 单场统计仓储。(game_id, player_id)唯一，
// 重复保存时整条覆盖。
type GameStatsRepository interface {
	ListAll() ([]model.GameStats, error)
	ByGame(gameID string) ([]model.GameStats, error)
	ByPlayer(playerID string) ([]model.GameStats, error)
	// Get 未找到返回nil
	Get(gameID, playerID string) (*model.GameStats, error)
	// SaveMany 批量upsert，一次写盘
	SaveMany(stats []model.GameStats) error
	// DeleteByGame 删除某场比赛的全部统计，返回删除条数
	DeleteByGame(gameID string) (int, error)
}

type gameStatsRepository struct {
	store *storage.Store
}

// NewGameStatsRepository 创建GameStatsRepository实例
func NewGameStatsRepository(store *storage.Store) GameStatsRepository {
	return &gameStatsRepository{store: store}
}

func (r *gameStatsRepository) ListAll() ([]model.GameStats, error) {
	var stats []model.GameStats
	if err := r.store.Load(storage.FileGameStats, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *gameStatsRepository) ByGame(gameID string) ([]model.GameStats, error) {
	all, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.GameStats, 0)
	for _, s := range all {
		if s.GameID == gameID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *gameStatsRepository) ByPlayer(playerID string) ([]model.GameStats, error) {
	all, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.GameStats, 0)
	for _, s := range all {
		if s.PlayerID == playerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *gameStatsRepository) Get(gameID, playerID string) (*model.GameStats, error) {
	all, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].GameID == gameID && all[i].PlayerID == playerID {
			return &all[i], nil
		}
	}
	return nil, nil
}

// SaveMany 用联合主键map定位已有记录做整条覆盖，新记录按入参顺序追加，
// 全部合并完成后单次写盘。
func (r *gameStatsRepository) SaveMany(stats []model.GameStats) error {
	all, err := r.ListAll()
	if err != nil {
		return err
	}

	index := make(map[statKey]int, len(all))
	for i, s := range all {
		index[statKey{s.GameID, s.PlayerID}] = i
	}

	for _, s := range stats {
		key := statKey{s.GameID, s.PlayerID}
		if i, ok := index[key]; ok {
			all[i] = s
		} else {
			index[key] = len(all)
			all = append(all, s)
		}
	}
	return r.store.Save(storage.FileGameStats, all)
}

func (r *gameStatsRepository) DeleteByGame(gameID string) (int, error) {
	all, err := r.ListAll()
	if err != nil {
		return 0, err
	}
	kept := all[:0]
	for _, s := range all {
		if s.GameID != gameID {
			kept = append(kept, s)
		}
	}
	deleted := len(all) - len(kept)
	if deleted == 0 {
		return 0, nil
	}
	return deleted, r.store.Save(storage.FileGameStats, kept)
}
