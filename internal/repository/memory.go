package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/user/moviefinder/internal/model"
)

// MemoryPopularityRepository 进程内热搜记录，用于开发和测试
type MemoryPopularityRepository struct {
	mu      sync.Mutex
	records []*model.PopularityRecord // 插入顺序
	nextID  int
}

func NewMemoryPopularityRepository() *MemoryPopularityRepository {
	return &MemoryPopularityRepository{}
}

func (r *MemoryPopularityRepository) FindByTerm(ctx context.Context, term string) (*model.PopularityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.SearchTerm == term {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryPopularityRepository) Create(ctx context.Context, record *model.PopularityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = strconv.Itoa(r.nextID)
	cp := *record
	r.records = append(r.records, &cp)
	return nil
}

func (r *MemoryPopularityRepository) UpdateCount(ctx context.Context, id string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			rec.Count = count
			return nil
		}
	}
	return fmt.Errorf("记录不存在: %s", id)
}

func (r *MemoryPopularityRepository) ListTop(ctx context.Context, limit int) ([]*model.PopularityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.PopularityRecord, len(r.records))
	for i, rec := range r.records {
		cp := *rec
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len 记录条数
func (r *MemoryPopularityRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
