package repository

import (
	"DugoutSync/internal/model"
	"DugoutSync/internal/storage"
)

// GameRepository 比赛集合仓储
type GameRepository interface {
	// List 返回全部比赛。老记录缺source/status时就地补全并回写文件。
	List() ([]model.Game, error)
	// GetByID 未找到返回nil
	GetByID(gameID string) (*model.Game, error)
	// Add 追加一场新比赛
	Add(game model.Game) error
	// Update 合并部分更新，未找到返回nil
	Update(gameID string, upd *model.GameUpdate) (*model.Game, error)
	// Delete 删除比赛并级联删除该场全部统计，返回是否找到及删除的统计条数
	Delete(gameID string) (bool, int, error)
	// MarkCompleted 录入统计后把比赛标记为completed
	MarkCompleted(gameID string) error
}

type gameRepository struct {
	store     *storage.Store
	statsRepo GameStatsRepository
}

// NewGameRepository 创建GameRepository实例
func NewGameRepository(store *storage.Store, statsRepo GameStatsRepository) GameRepository {
	return &gameRepository{store: store, statsRepo: statsRepo}
}

func (r *gameRepository) List() ([]model.Game, error) {
	var games []model.Game
	if err := r.store.Load(storage.FileGames, &games); err != nil {
		return nil, err
	}

	// 兼容老数据：规则补全后持久化，保证后续读取拿到的是规范形态
	changed := false
	for i := range games {
		if games[i].Normalize() {
			changed = true
		}
	}
	if changed {
		if err := r.store.Save(storage.FileGames, games); err != nil {
			return nil, err
		}
	}
	return games, nil
}

func (r *gameRepository) GetByID(gameID string) (*model.Game, error) {
	games, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range games {
		if games[i].ID == gameID {
			return &games[i], nil
		}
	}
	return nil, nil
}

func (r *gameRepository) Add(game model.Game) error {
	games, err := r.List()
	if err != nil {
		return err
	}
	games = append(games, game)
	return r.store.Save(storage.FileGames, games)
}

func (r *gameRepository) Update(gameID string, upd *model.GameUpdate) (*model.Game, error) {
	games, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range games {
		if games[i].ID == gameID {
			upd.ApplyTo(&games[i])
			if err := r.store.Save(storage.FileGames, games); err != nil {
				return nil, err
			}
			return &games[i], nil
		}
	}
	return nil, nil
}

func (r *gameRepository) Delete(gameID string) (bool, int, error) {
	games, err := r.List()
	if err != nil {
		return false, 0, err
	}
	kept := games[:0]
	for _, g := range games {
		if g.ID != gameID {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(games) {
		return false, 0, nil
	}
	if err := r.store.Save(storage.FileGames, kept); err != nil {
		return false, 0, err
	}

	// 该场比赛的统计记录一并删除，不留孤儿
	deleted, err := r.statsRepo.DeleteByGame(gameID)
	if err != nil {
		return true, 0, err
	}
	return true, deleted, nil
}

func (r *gameRepository) MarkCompleted(gameID string) error {
	games, err := r.List()
	if err != nil {
		return err
	}
	for i := range games {
		if games[i].ID == gameID {
			if games[i].Status == model.GameStatusCompleted {
				return nil
			}
			games[i].Status = model.GameStatusCompleted
			return r.store.Save(storage.FileGames, games)
		}
	}
	return nil
}
