package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/user/moviefinder/internal/model"
)

// PopularityRepository PostgreSQL 热搜记录
type PopularityRepository struct {
	db *gorm.DB
}

func NewPopularityRepository(db *gorm.DB) *PopularityRepository {
	return &PopularityRepository{db: db}
}

// FindByTerm 按搜索词查找
func (r *PopularityRepository) FindByTerm(ctx context.Context, term string) (*model.PopularityRecord, error) {
	var record model.PopularityRecord
	err := r.db.WithContext(ctx).Where("search_term = ?", term).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	record.ID = strconv.FormatUint(uint64(record.Seq), 10)
	return &record, nil
}

// Create 新建记录
func (r *PopularityRepository) Create(ctx context.Context, record *model.PopularityRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}
	record.ID = strconv.FormatUint(uint64(record.Seq), 10)
	return nil
}

// UpdateCount 写入新的次数（调用方先读后写）
func (r *PopularityRepository) UpdateCount(ctx context.Context, id string, count int) error {
	seq, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return fmt.Errorf("非法的记录 ID %q: %w", id, err)
	}
	result := r.db.WithContext(ctx).
		Model(&model.PopularityRecord{}).
		Where("id = ?", seq).
		Update("count", count)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListTop 按次数倒序，自增 ID 保证同次数按插入顺序
func (r *PopularityRepository) ListTop(ctx context.Context, limit int) ([]*model.PopularityRecord, error) {
	var records []*model.PopularityRecord
	err := r.db.WithContext(ctx).
		Order("count DESC").
		Order("id ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		rec.ID = strconv.FormatUint(uint64(rec.Seq), 10)
	}
	return records, nil
}
