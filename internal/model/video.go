package model

// 视频类型
const (
	VideoTypeTrailer = "Trailer"
	VideoTypeTeaser  = "Teaser"
)

// VideoSiteYouTube 视频托管站点
const VideoSiteYouTube = "YouTube"

// Video TMDB 视频条目
type Video struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Site string `json:"site"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// IsPlayableTrailer 是否为可播放的 YouTube 预告片（Trailer / Teaser）
func (v Video) IsPlayableTrailer() bool {
	if v.Site != VideoSiteYouTube {
		return false
	}
	return v.Type == VideoTypeTrailer || v.Type == VideoTypeTeaser
}

// VideoList 视频接口响应
type VideoList struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}
