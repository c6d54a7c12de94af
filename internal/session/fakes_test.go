package session

import (
	"context"
	"errors"
	"sync"

	"github.com/user/moviefinder/internal/model"
)

type searchCall struct {
	term string
	page int
}

// fakeMetadata 可控的元数据接口；gates 中的请求会阻塞到通道关闭
type fakeMetadata struct {
	mu      sync.Mutex
	calls   []searchCall
	gates   map[searchCall]chan struct{}
	results map[searchCall][]model.Movie
	err     error

	details     map[int]*model.Movie
	detailGates map[int]chan struct{}
	videos      map[int][]model.Video
	detailErr   error
	videosErr   error
	detailCalls []int
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{
		gates:       make(map[searchCall]chan struct{}),
		results:     make(map[searchCall][]model.Movie),
		details:     make(map[int]*model.Movie),
		detailGates: make(map[int]chan struct{}),
		videos:      make(map[int][]model.Video),
	}
}

func (f *fakeMetadata) gate(term string, page int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[searchCall{term, page}] = ch
	return ch
}

func (f *fakeMetadata) gateDetail(id int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.detailGates[id] = ch
	return ch
}

func (f *fakeMetadata) DetailCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.detailCalls...)
}

func (f *fakeMetadata) setResults(term string, page int, movies ...model.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[searchCall{term, page}] = movies
}

func (f *fakeMetadata) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeMetadata) Calls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.calls...)
}

func (f *fakeMetadata) SearchOrDiscover(ctx context.Context, term string, page int) ([]model.Movie, error) {
	c := searchCall{term, page}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	gate := f.gates[c]
	f.mu.Unlock()

	// 模拟迟到的响应：不理会 ctx，直到放行
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Movie{}, f.results[c]...), nil
}

func (f *fakeMetadata) GetDetail(ctx context.Context, id int) (*model.Movie, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	gate := f.detailGates[id]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	m, ok := f.details[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMetadata) GetVideos(ctx context.Context, id int) ([]model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.videosErr != nil {
		return nil, f.videosErr
	}
	return f.videos[id], nil
}

type recorded struct {
	term  string
	movie model.Movie
}

type fakePopularity struct {
	mu       sync.Mutex
	recorded []recorded
	trending []*model.PopularityRecord
	topCalls int
}

func (f *fakePopularity) RecordSearch(ctx context.Context, term string, movie model.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, recorded{term, movie})
}

func (f *fakePopularity) TopTrending(ctx context.Context, limit int) []*model.PopularityRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topCalls++
	if len(f.trending) > limit {
		return f.trending[:limit]
	}
	return f.trending
}

func (f *fakePopularity) Recorded() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.recorded...)
}

func (f *fakePopularity) TopCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topCalls
}
