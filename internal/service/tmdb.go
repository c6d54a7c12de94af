package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/user/moviefinder/internal/config"
	"github.com/user/moviefinder/internal/model"
)

// ErrFetch 元数据请求失败（非 2xx 或网络错误）
var ErrFetch = errors.New("failed to fetch")

// FetchError 元数据请求错误
type FetchError struct {
	Endpoint string
	Status   int // 网络错误时为 0
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is 所有 FetchError 都匹配 ErrFetch
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// MetadataClient 电影元数据接口
type MetadataClient interface {
	SearchOrDiscover(ctx context.Context, query string, page int) ([]model.Movie, error)
	GetDetail(ctx context.Context, id int) (*model.Movie, error)
	GetVideos(ctx context.Context, id int) ([]model.Video, error)
}

// TMDBService TMDB 客户端
type TMDBService struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
	group      singleflight.Group
}

// NewTMDBService 创建 TMDB 客户端；不设置超时，取消只依赖 ctx
func NewTMDBService(cfg config.TMDBConfig, logger zerolog.Logger) *TMDBService {
	return &TMDBService{
		httpClient: &http.Client{},
		config:     cfg,
		logger:     logger.With().Str("component", "tmdb").Logger(),
	}
}

// SearchURL 构造搜索或发现接口地址：query 非空走 search，否则按热度 discover
func (s *TMDBService) SearchURL(query string, page int) string {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
		params.Set("page", strconv.Itoa(page))
		return s.config.BaseURL + "/search/movie?" + params.Encode()
	}
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(page))
	return s.config.BaseURL + "/discover/movie?" + params.Encode()
}

// SearchOrDiscover 搜索电影，query 为空时返回热门发现列表
func (s *TMDBService) SearchOrDiscover(ctx context.Context, query string, page int) ([]model.Movie, error) {
	var result model.MoviePage
	if err := s.getJSON(ctx, s.SearchURL(query, page), &result); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("query", query).
		Int("page", page).
		Int("results", len(result.Results)).
		Msg("电影搜索完成")

	if result.Results == nil {
		return []model.Movie{}, nil
	}
	return result.Results, nil
}

// GetDetail 获取电影详情；并发的相同请求合并为一次。
// 合并后的请求不随任何一个调用方取消，每个调用方只等待自己的 ctx。
func (s *TMDBService) GetDetail(ctx context.Context, id int) (*model.Movie, error) {
	key := "detail:" + strconv.Itoa(id)
	endpoint := fmt.Sprintf("%s/movie/%d", s.config.BaseURL, id)
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		var movie model.Movie
		if err := s.getJSON(shared, endpoint, &movie); err != nil {
			return nil, err
		}
		return &movie, nil
	})

	select {
	case <-ctx.Done():
		return nil, &FetchError{Endpoint: endpoint, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// 共享结果，返回副本避免调用方互相影响
		movie := *res.Val.(*model.Movie)
		return &movie, nil
	}
}

// GetVideos 获取电影视频列表
func (s *TMDBService) GetVideos(ctx context.Context, id int) ([]model.Video, error) {
	var result model.VideoList
	endpoint := fmt.Sprintf("%s/movie/%d/videos", s.config.BaseURL, id)
	if err := s.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// SelectTrailer 按响应顺序取第一个 YouTube 的 Trailer/Teaser
func SelectTrailer(videos []model.Video) (model.Video, bool) {
	for _, v := range videos {
		if v.IsPlayableTrailer() {
			return v, true
		}
	}
	return model.Video{}, false
}

func (s *TMDBService) getJSON(ctx context.Context, endpoint string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("创建请求失败: %w", err)}
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.Token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Str("url", endpoint).Msg("TMDB 请求失败")
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error().Int("status", resp.StatusCode).Str("url", endpoint).Msg("TMDB 返回错误状态")
		return &FetchError{Endpoint: endpoint, Status: resp.StatusCode, Err: fmt.Errorf("状态码: %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("解析JSON失败: %w", err)}
	}
	return nil
}
