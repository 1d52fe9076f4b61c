package repository

import (
	"DugoutSync/internal/model"
	"DugoutSync/internal/storage"
)

// LineupRepository 当前打线与守备布阵仓储。
// 两个集合都是整存整取：打线固定9条，守备9或10条（含DH时）。
type LineupRepository interface {
	GetLineup() ([]model.LineupSlot, error)
	SaveLineup(lineup []model.LineupSlot) error
	GetField() ([]model.FieldPosition, error)
	SaveField(positions []model.FieldPosition) error
}

type lineupRepository struct {
	store *storage.Store
}

// NewLineupRepository 创建LineupRepository实例
func NewLineupRepository(store *storage.Store) LineupRepository {
	return &lineupRepository{store: store}
}

func (r *lineupRepository) GetLineup() ([]model.LineupSlot, error) {
	var lineup []model.LineupSlot
	if err := r.store.Load(storage.FileLineup, &lineup); err != nil {
		return nil, err
	}
	return lineup, nil
}

func (r *lineupRepository) SaveLineup(lineup []model.LineupSlot) error {
	return r.store.Save(storage.FileLineup, lineup)
}

func (r *lineupRepository) GetField() ([]model.FieldPosition, error) {
	var field []model.FieldPosition
	if err := r.store.Load(storage.FileField, &field); err != nil {
		return nil, err
	}
	return field, nil
}

func (r *lineupRepository) SaveField(positions []model.FieldPosition) error {
	return r.store.Save(storage.FileField, positions)
}
