package model

// SearchStatus 搜索状态
type SearchStatus string

const (
	SearchIdle    SearchStatus = "idle"
	SearchLoading SearchStatus = "loading"
	SearchSuccess SearchStatus = "success"
	SearchError   SearchStatus = "error"
)

// SearchState 搜索会话快照，供展示层渲染
type SearchState struct {
	Term          string       `json:"term"`
	DebouncedTerm string       `json:"debounced_term"`
	Page          int          `json:"page"`
	Status        SearchStatus `json:"status"`
	Movies        []Movie      `json:"movies"`
	ErrorMessage  string       `json:"error_message,omitempty"`
}

// DetailView 详情页状态；加载失败时保持 Loading
type DetailView struct {
	MovieID    int    `json:"movie_id"`
	Loading    bool   `json:"loading"`
	Movie      *Movie `json:"movie,omitempty"`
	TrailerKey string `json:"trailer_key,omitempty"`
}
