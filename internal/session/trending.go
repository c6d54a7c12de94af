package session

import (
	"context"
	"sync"

	"github.com/user/moviefinder/internal/model"
)

// TrendingSource 热搜榜数据源
type TrendingSource interface {
	TopTrending(ctx context.Context, limit int) []*model.PopularityRecord
}

// TrendingLoader 会话创建时加载一次热搜榜
type TrendingLoader struct {
	source TrendingSource
	limit  int

	once    sync.Once
	mu      sync.RWMutex
	records []*model.PopularityRecord
}

func NewTrendingLoader(source TrendingSource, limit int) *TrendingLoader {
	return &TrendingLoader{source: source, limit: limit}
}

// Load 只执行一次；空结果（包括失败）不发布，热搜区不显示
func (l *TrendingLoader) Load(ctx context.Context) {
	l.once.Do(func() {
		records := l.source.TopTrending(ctx, l.limit)
		if len(records) == 0 {
			return
		}
		l.mu.Lock()
		l.records = records
		l.mu.Unlock()
	})
}

// Records 已发布的热搜榜，未加载或失败时为 nil
func (l *TrendingLoader) Records() []*model.PopularityRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records
}
