package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/user/moviefinder/internal/model"
	"github.com/user/moviefinder/internal/service"
)

// DetailLoader 电影详情加载：详情 -> 视频 -> 选预告片。
// 任一步失败只记日志，视图保持 Loading。
type DetailLoader struct {
	metadata service.MetadataClient
	logger   zerolog.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	view   model.DetailView
}

func NewDetailLoader(metadata service.MetadataClient, logger zerolog.Logger) *DetailLoader {
	return &DetailLoader{
		metadata: metadata,
		logger:   logger.With().Str("component", "detail").Logger(),
	}
}

// Navigate 切换到指定电影并加载，返回当前发布的视图。
// 被更新的导航取代时丢弃本次结果。
func (l *DetailLoader) Navigate(ctx context.Context, id int) model.DetailView {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	l.cancel = cancel
	l.seq++
	seq := l.seq
	l.view = model.DetailView{MovieID: id, Loading: true}
	l.mu.Unlock()

	view, ok := l.load(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq == l.seq {
		l.cancel = nil
		if ok {
			l.view = view
		}
	}
	return l.view
}

// View 当前视图
func (l *DetailLoader) View() model.DetailView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

// Close 取消进行中的加载
func (l *DetailLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *DetailLoader) load(ctx context.Context, id int) (model.DetailView, bool) {
	movie, err := l.metadata.GetDetail(ctx, id)
	if err != nil {
		l.logger.Error().Err(err).Int("movie_id", id).Msg("获取电影详情失败")
		return model.DetailView{}, false
	}

	videos, err := l.metadata.GetVideos(ctx, id)
	if err != nil {
		l.logger.Error().Err(err).Int("movie_id", id).Msg("获取电影视频失败")
		return model.DetailView{}, false
	}

	view := model.DetailView{MovieID: id, Movie: movie}
	if trailer, ok := service.SelectTrailer(videos); ok {
		view.TrailerKey = trailer.Key
	}
	return view, true
}
