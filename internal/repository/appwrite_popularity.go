package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/moviefinder/internal/appwrite"
	"github.com/user/moviefinder/internal/model"
)

// popularityData 文档字段名沿用前端约定
type popularityData struct {
	SearchTerm string `json:"searchTerm"`
	Count      int    `json:"count"`
	MovieID    int    `json:"movie_id"`
	PosterURL  string `json:"poster_url"`
}

type popularityDocument struct {
	popularityData
	ID        string    `json:"$id"`
	CreatedAt time.Time `json:"$createdAt"`
}

func (d popularityDocument) toRecord() *model.PopularityRecord {
	return &model.PopularityRecord{
		ID:         d.ID,
		SearchTerm: d.SearchTerm,
		Count:      d.Count,
		MovieID:    d.MovieID,
		PosterURL:  d.PosterURL,
		CreatedAt:  d.CreatedAt,
	}
}

// AppwritePopularityRepository 文档数据库中的热搜记录
type AppwritePopularityRepository struct {
	client       *appwrite.Client
	databaseID   string
	collectionID string
}

func NewAppwritePopularityRepository(client *appwrite.Client, databaseID, collectionID string) *AppwritePopularityRepository {
	return &AppwritePopularityRepository{
		client:       client,
		databaseID:   databaseID,
		collectionID: collectionID,
	}
}

func (r *AppwritePopularityRepository) FindByTerm(ctx context.Context, term string) (*model.PopularityRecord, error) {
	list, err := r.client.ListDocuments(ctx, r.databaseID, r.collectionID, appwrite.Equal("searchTerm", term))
	if err != nil {
		return nil, fmt.Errorf("查询搜索词失败: %w", err)
	}
	if len(list.Documents) == 0 {
		return nil, nil
	}
	docs, err := decodeDocuments(list.Documents[:1])
	if err != nil {
		return nil, err
	}
	return docs[0].toRecord(), nil
}

func (r *AppwritePopularityRepository) Create(ctx context.Context, record *model.PopularityRecord) error {
	data := popularityData{
		SearchTerm: record.SearchTerm,
		Count:      record.Count,
		MovieID:    record.MovieID,
		PosterURL:  record.PosterURL,
	}
	raw, err := r.client.CreateDocument(ctx, r.databaseID, r.collectionID, "", data)
	if err != nil {
		return fmt.Errorf("创建文档失败: %w", err)
	}
	var created popularityDocument
	if err := json.Unmarshal(raw, &created); err != nil {
		return fmt.Errorf("解析文档失败: %w", err)
	}
	record.ID = created.ID
	if !created.CreatedAt.IsZero() {
		record.CreatedAt = created.CreatedAt
	}
	return nil
}

func (r *AppwritePopularityRepository) UpdateCount(ctx context.Context, id string, count int) error {
	_, err := r.client.UpdateDocument(ctx, r.databaseID, r.collectionID, id, map[string]interface{}{
		"count": count,
	})
	if err != nil {
		return fmt.Errorf("更新文档失败: %w", err)
	}
	return nil
}

func (r *AppwritePopularityRepository) ListTop(ctx context.Context, limit int) ([]*model.PopularityRecord, error) {
	list, err := r.client.ListDocuments(ctx, r.databaseID, r.collectionID,
		appwrite.OrderDesc("count"),
		appwrite.OrderAsc("$createdAt"),
		appwrite.Limit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("查询热搜失败: %w", err)
	}
	docs, err := decodeDocuments(list.Documents)
	if err != nil {
		return nil, err
	}
	records := make([]*model.PopularityRecord, len(docs))
	for i, d := range docs {
		records[i] = d.toRecord()
	}
	return records, nil
}

func decodeDocuments(raw []json.RawMessage) ([]popularityDocument, error) {
	docs := make([]popularityDocument, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &docs[i]); err != nil {
			return nil, fmt.Errorf("解析文档失败: %w", err)
		}
	}
	return docs, nil
}
