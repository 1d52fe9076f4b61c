package repository

import (
	"DugoutSync/internal/model"
	"DugoutSync/internal/storage"
)

// CleanupSummary 删除球员时级联清理的统计
type CleanupSummary struct {
	LineupSlotsCleared    int `json:"lineup_slots_cleared"`    // 打线中清空的棒次数
	FieldPositionsCleared int `json:"field_positions_cleared"` // 守备布阵中清空的位置数
	ConfigurationsUpdated int `json:"configurations_updated"`  // 被修补的配置份数
}

// PlayerRepository 球员集合仓储
type PlayerRepository interface {
	// List 返回全部球员（保持文件内顺序）
	List() ([]model.Player, error)
	// GetByID 按ID查找，未找到返回nil
	GetByID(playerID string) (*model.Player, error)
	// Add 追加一名新球员
	Add(player model.Player) error
	// Update 合并部分更新，未找到返回nil
	Update(playerID string, upd *model.PlayerUpdate) (*model.Player, error)
	// Delete 删除球员并级联清理所有弱引用，返回是否找到及清理统计
	Delete(playerID string) (bool, CleanupSummary, error)
}

type playerRepository struct {
	store *storage.Store
}

// NewPlayerRepository 创建PlayerRepository实例
func NewPlayerRepository(store *storage.Store) PlayerRepository {
	return &playerRepository{store: store}
}

func (r *playerRepository) List() ([]model.Player, error) {
	var players []model.Player
	if err := r.store.Load(storage.FilePlayers, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) GetByID(playerID string) (*model.Player, error) {
	players, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range players {
		if players[i].ID == playerID {
			return &players[i], nil
		}
	}
	return nil, nil
}

func (r *playerRepository) Add(player model.Player) error {
	players, err := r.List()
	if err != nil {
		return err
	}
	players = append(players, player)
	return r.store.Save(storage.FilePlayers, players)
}

func (r *playerRepository) Update(playerID string, upd *model.PlayerUpdate) (*model.Player, error) {
	players, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range players {
		if players[i].ID == playerID {
			upd.ApplyTo(&players[i])
			if err := r.store.Save(storage.FilePlayers, players); err != nil {
				return nil, err
			}
			return &players[i], nil
		}
	}
	return nil, nil
}

// Delete 先级联清理弱引用，再从集合中移除球员本体。
// 弱引用只置null，棒次/守位条目本身保留。
func (r *playerRepository) Delete(playerID string) (bool, CleanupSummary, error) {
	players, err := r.List()
	if err != nil {
		return false, CleanupSummary{}, err
	}

	kept := players[:0]
	for _, p := range players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(players) {
		return false, CleanupSummary{}, nil
	}

	summary, err := r.cascadeDeleteReferences(playerID)
	if err != nil {
		return false, summary, err
	}
	if err := r.store.Save(storage.FilePlayers, kept); err != nil {
		return false, summary, err
	}
	return true, summary, nil
}

// cascadeDeleteReferences 清理打线、守备布阵和全部配置内嵌快照中的引用。
// 配置内嵌的是值拷贝，必须逐份修补，不能指望当前打线的清理顺带生效。
func (r *playerRepository) cascadeDeleteReferences(playerID string) (CleanupSummary, error) {
	var summary CleanupSummary

	var lineup []model.LineupSlot
	if err := r.store.Load(storage.FileLineup, &lineup); err != nil {
		return summary, err
	}
	for i := range lineup {
		if lineup[i].PlayerID != nil && *lineup[i].PlayerID == playerID {
			lineup[i].PlayerID = nil
			summary.LineupSlotsCleared++
		}
	}
	if summary.LineupSlotsCleared > 0 {
		if err := r.store.Save(storage.FileLineup, lineup); err != nil {
			return summary, err
		}
	}

	var field []model.FieldPosition
	if err := r.store.Load(storage.FileField, &field); err != nil {
		return summary, err
	}
	for i := range field {
		if field[i].PlayerID != nil && *field[i].PlayerID == playerID {
			field[i].PlayerID = nil
			summary.FieldPositionsCleared++
		}
	}
	if summary.FieldPositionsCleared > 0 {
		if err := r.store.Save(storage.FileField, field); err != nil {
			return summary, err
		}
	}

	var configs []model.Configuration
	if err := r.store.Load(storage.FileConfigurations, &configs); err != nil {
		return summary, err
	}
	for i := range configs {
		modified := false
		for j := range configs[i].Lineup {
			if configs[i].Lineup[j].PlayerID != nil && *configs[i].Lineup[j].PlayerID == playerID {
				configs[i].Lineup[j].PlayerID = nil
				modified = true
			}
		}
		for j := range configs[i].FieldPositions {
			if configs[i].FieldPositions[j].PlayerID != nil && *configs[i].FieldPositions[j].PlayerID == playerID {
				configs[i].FieldPositions[j].PlayerID = nil
				modified = true
			}
		}
		if modified {
			summary.ConfigurationsUpdated++
		}
	}
	if summary.ConfigurationsUpdated > 0 {
		if err := r.store.Save(storage.FileConfigurations, configs); err != nil {
			return summary, err
		}
	}

	return summary, nil
}
