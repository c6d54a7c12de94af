package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/moviefinder/internal/model"
)

// DefaultTrendingLimit 热搜默认条数
const DefaultTrendingLimit = 5

// PopularityStore 热搜记录存储
type PopularityStore interface {
	// FindByTerm 按搜索词查找，不存在时返回 nil, nil
	FindByTerm(ctx context.Context, term string) (*model.PopularityRecord, error)
	Create(ctx context.Context, record *model.PopularityRecord) error
	UpdateCount(ctx context.Context, id string, count int) error
	// ListTop 按次数倒序，次数相同保持插入顺序
	ListTop(ctx context.Context, limit int) ([]*model.PopularityRecord, error)
}

// PopularityService 热搜统计服务，所有错误只记录日志不向上抛出
type PopularityService struct {
	store     PopularityStore
	imageBase string
	logger    zerolog.Logger
}

// NewPopularityService 创建热搜统计服务
func NewPopularityService(store PopularityStore, imageBase string, logger zerolog.Logger) *PopularityService {
	return &PopularityService{
		store:     store,
		imageBase: imageBase,
		logger:    logger.With().Str("component", "popularity").Logger(),
	}
}

// RecordSearch 记录一次成功搜索：已存在则次数 +1，否则新建次数为 1 的记录。
// 先读后写，不保证原子性，多个会话并发搜索同一个词时可能少计。
func (s *PopularityService) RecordSearch(ctx context.Context, term string, movie model.Movie) {
	record, err := s.store.FindByTerm(ctx, term)
	if err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("查询热搜记录失败")
		return
	}

	if record != nil {
		if err := s.store.UpdateCount(ctx, record.ID, record.Count+1); err != nil {
			s.logger.Error().Err(err).Str("term", term).Msg("更新热搜次数失败")
		}
		return
	}

	record = &model.PopularityRecord{
		SearchTerm: term,
		Count:      1,
		MovieID:    movie.ID,
		PosterURL:  s.imageBase + movie.PosterPath,
		CreatedAt:  time.Now(),
	}
	if err := s.store.Create(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("创建热搜记录失败")
	}
}

// TopTrending 获取热搜榜，失败时返回空列表
func (s *PopularityService) TopTrending(ctx context.Context, limit int) []*model.PopularityRecord {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	records, err := s.store.ListTop(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Int("limit", limit).Msg("获取热搜失败")
		return []*model.PopularityRecord{}
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}
