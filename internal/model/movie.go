package model

// Genre 电影类型
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie TMDB 电影信息（只读，字段完全来自 TMDB 响应）
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	PosterPath       string  `json:"poster_path"`
	Overview         string  `json:"overview"`
	VoteAverage      float64 `json:"vote_average"`
	ReleaseDate      string  `json:"release_date"`
	Runtime          int     `json:"runtime,omitempty"`
	OriginalLanguage string  `json:"original_language"`
	Tagline          string  `json:"tagline,omitempty"`
	Genres           []Genre `json:"genres,omitempty"`
	Budget           int64   `json:"budget,omitempty"`
	Revenue          int64   `json:"revenue,omitempty"`
	Status           string  `json:"status,omitempty"`
}

// MoviePage 搜索/发现接口的分页结果
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}
