package session

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/user/moviefinder/internal/model"
	"github.com/user/moviefinder/internal/service"
)

// FetchFailedMessage 请求失败和结果为空统一展示的提示
const FetchFailedMessage = "Failed to fetch movies. Please try again later."

// Recorder 记录成功搜索
type Recorder interface {
	RecordSearch(ctx context.Context, term string, movie model.Movie)
}

// Searcher 单个会话的搜索编排：防抖搜索词 + 页码 -> 元数据请求 -> 状态发布。
// 每次请求递增序号并取消上一次请求，过期响应直接丢弃。
type Searcher struct {
	metadata service.MetadataClient
	recorder Recorder
	logger   zerolog.Logger
	debounce *Debouncer

	mu       sync.Mutex
	state    model.SearchState
	seq      uint64
	cancel   context.CancelFunc
	onChange func(model.SearchState)
	closed   bool

	wg sync.WaitGroup
}

// SearcherOption 可选配置
type SearcherOption func(*Searcher)

// WithOnChange 每次状态变化后回调；回调在持锁状态下执行，不能再调用 Searcher 的方法
func WithOnChange(fn func(model.SearchState)) SearcherOption {
	return func(s *Searcher) {
		s.onChange = fn
	}
}

// NewSearcher 创建搜索编排器，需调用 Start 触发首次加载
func NewSearcher(metadata service.MetadataClient, recorder Recorder, clock clockwork.Clock, quiet time.Duration, logger zerolog.Logger, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		metadata: metadata,
		recorder: recorder,
		logger:   logger.With().Str("component", "search").Logger(),
		state: model.SearchState{
			Page:   1,
			Status: model.SearchIdle,
			Movies: []model.Movie{},
		},
	}
	s.debounce = NewDebouncer(clock, quiet, s.applyDebouncedTerm)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start 首次加载（空搜索词第一页，即热门发现）
func (s *Searcher) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchLocked()
}

// SetTerm 用户输入；防抖后才生效
func (s *Searcher) SetTerm(term string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state.Term = term
	s.publishLocked()
	s.mu.Unlock()

	s.debounce.Push(term)
}

// Next 下一页，无上限
func (s *Searcher) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state.Page++
	s.fetchLocked()
}

// Previous 上一页，最小为 1；已在第一页时不做任何事
func (s *Searcher) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state.Page <= 1 {
		return
	}
	s.state.Page--
	s.fetchLocked()
}

// State 当前状态快照
func (s *Searcher) State() model.SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Wait 等待进行中的请求和热搜记录结束
func (s *Searcher) Wait() {
	s.wg.Wait()
}

// Closed 是否已关闭
func (s *Searcher) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close 停止防抖并取消进行中的请求
func (s *Searcher) Close() {
	s.debounce.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Searcher) applyDebouncedTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || term == s.state.DebouncedTerm {
		return
	}
	s.state.DebouncedTerm = term
	s.fetchLocked()
}

func (s *Searcher) fetchLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.seq++
	seq := s.seq
	term, page := s.state.DebouncedTerm, s.state.Page

	s.state.Status = model.SearchLoading
	s.state.ErrorMessage = ""
	s.publishLocked()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.run(ctx, seq, term, page)
	}()
}

func (s *Searcher) run(ctx context.Context, seq uint64, term string, page int) {
	movies, err := s.metadata.SearchOrDiscover(ctx, term, page)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq || s.closed {
		s.logger.Debug().Str("term", term).Int("page", page).Msg("丢弃过期的搜索响应")
		return
	}
	s.cancel = nil

	switch {
	case err != nil:
		s.logger.Error().Err(err).Str("term", term).Int("page", page).Msg("获取电影失败")
		s.failLocked()
		return
	case len(movies) == 0:
		s.logger.Warn().Str("term", term).Int("page", page).Msg("搜索结果为空")
		s.failLocked()
		return
	}

	s.state.Status = model.SearchSuccess
	s.state.Movies = movies
	s.publishLocked()

	if term != "" && s.recorder != nil {
		first := movies[0]
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.recorder.RecordSearch(context.Background(), term, first)
		}()
	}
}

func (s *Searcher) failLocked() {
	s.state.Status = model.SearchError
	s.state.ErrorMessage = FetchFailedMessage
	s.state.Movies = []model.Movie{}
	s.publishLocked()
}

func (s *Searcher) publishLocked() {
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}

func (s *Searcher) snapshotLocked() model.SearchState {
	st := s.state
	st.Movies = append([]model.Movie(nil), s.state.Movies...)
	if st.Movies == nil {
		st.Movies = []model.Movie{}
	}
	return st
}
