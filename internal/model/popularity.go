package model

import "time"

// PopularityRecord 热搜记录：搜索词 -> 次数 + 关联电影
type PopularityRecord struct {
	ID         string    `json:"id" gorm:"-"`
	Seq        uint      `json:"-" gorm:"column:id;primaryKey;autoIncrement"`
	SearchTerm string    `json:"search_term" gorm:"column:search_term;uniqueIndex"`
	Count      int       `json:"count" gorm:"column:count;index"`
	MovieID    int       `json:"movie_id" gorm:"column:movie_id"`
	PosterURL  string    `json:"poster_url" gorm:"column:poster_url"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName 表名
func (PopularityRecord) TableName() string {
	return "popularity_records"
}
