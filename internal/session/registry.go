package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/user/moviefinder/internal/config"
	"github.com/user/moviefinder/internal/model"
	"github.com/user/moviefinder/internal/service"
)

// Session 一个浏览器会话：搜索、热搜、详情各自独立
type Session struct {
	ID       string
	Search   *Searcher
	Trending *TrendingLoader
	Detail   *DetailLoader
}

// Close 释放会话持有的请求和计时器
func (s *Session) Close() {
	s.Search.Close()
	s.Detail.Close()
}

// Closed 会话是否已关闭（过期或主动结束）
func (s *Session) Closed() bool {
	return s.Search.Closed()
}

// Popularity 热搜统计（记录 + 榜单）
type Popularity interface {
	Recorder
	TrendingSource
}

// Registry 会话表，空闲超过 TTL 的会话被清理
type Registry struct {
	metadata   service.MetadataClient
	popularity Popularity
	clock      clockwork.Clock
	cfg        config.SearchConfig
	logger     zerolog.Logger
	sessions   *cache.Cache
}

// NewRegistry 创建会话表
func NewRegistry(metadata service.MetadataClient, popularity Popularity, cfg *config.Config, clock clockwork.Clock, logger zerolog.Logger) *Registry {
	r := &Registry{
		metadata:   metadata,
		popularity: popularity,
		clock:      clock,
		cfg:        cfg.Search,
		logger:     logger.With().Str("component", "session").Logger(),
		sessions:   cache.New(cfg.SessionTTL, cfg.SessionTTL/2),
	}
	r.sessions.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Close()
			r.logger.Debug().Str("session", id).Msg("会话已过期")
		}
	})
	return r
}

// Get 获取会话并刷新过期时间
func (r *Registry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := r.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	if s.Closed() {
		r.sessions.Delete(id)
		return nil, false
	}
	r.sessions.SetDefault(id, s)
	// 与清理协程竞争：刷新前刚被淘汰并关闭的会话不能放回
	if s.Closed() {
		r.sessions.Delete(id)
		return nil, false
	}
	return s, true
}

// Create 新建会话：启动首次搜索并加载一次热搜榜
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	stateLog := r.logger.With().Str("session", id).Logger()
	s := &Session{
		ID: id,
		Search: NewSearcher(r.metadata, r.popularity, r.clock, r.cfg.Debounce, r.logger,
			WithOnChange(func(st model.SearchState) {
				stateLog.Debug().
					Str("term", st.DebouncedTerm).
					Int("page", st.Page).
					Str("status", string(st.Status)).
					Msg("搜索状态变化")
			})),
		Trending: NewTrendingLoader(r.popularity, r.cfg.TrendingLimit),
		Detail:   NewDetailLoader(r.metadata, r.logger),
	}
	r.sessions.SetDefault(s.ID, s)

	s.Search.Start()
	go s.Trending.Load(context.Background())

	r.logger.Debug().Str("session", s.ID).Msg("创建会话")
	return s
}

// Delete 主动结束会话
func (r *Registry) Delete(id string) {
	r.sessions.Delete(id)
}

// Count 当前会话数
func (r *Registry) Count() int {
	return r.sessions.ItemCount()
}

// Flush 关闭全部会话
func (r *Registry) Flush() {
	for id := range r.sessions.Items() {
		r.sessions.Delete(id)
	}
}

var _ Popularity = (*service.PopularityService)(nil)
