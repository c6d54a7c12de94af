package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/user/moviefinder/internal/config"
)

// APIError 文档数据库返回的错误
type APIError struct {
	Status  int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("appwrite: %d %s: %s", e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("appwrite: %d: %s", e.Status, e.Message)
}

// DocumentList 文档列表响应
type DocumentList struct {
	Total     int               `json:"total"`
	Documents []json.RawMessage `json:"documents"`
}

// Client 文档数据库 REST 客户端
type Client struct {
	httpClient *http.Client
	endpoint   string
	projectID  string
	apiKey     string
	logger     zerolog.Logger
}

// NewClient 创建客户端
func NewClient(cfg config.AppwriteConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		projectID:  cfg.ProjectID,
		apiKey:     cfg.APIKey,
		logger:     logger.With().Str("component", "appwrite").Logger(),
	}
}

// UniqueID 生成新文档 ID
func UniqueID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ListDocuments 按查询条件列出文档
func (c *Client) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...string) (*DocumentList, error) {
	params := url.Values{}
	for _, q := range queries {
		params.Add("queries[]", q)
	}

	path := c.documentsPath(databaseID, collectionID)
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var list DocumentList
	if err := c.call(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateDocument 创建文档，documentID 为空时自动生成
func (c *Client) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data interface{}) (json.RawMessage, error) {
	if documentID == "" {
		documentID = UniqueID()
	}
	body := map[string]interface{}{
		"documentId": documentID,
		"data":       data,
	}

	var doc json.RawMessage
	if err := c.call(ctx, http.MethodPost, c.documentsPath(databaseID, collectionID), body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateDocument 局部更新文档
func (c *Client) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data interface{}) (json.RawMessage, error) {
	path := c.documentsPath(databaseID, collectionID) + "/" + url.PathEscape(documentID)
	body := map[string]interface{}{"data": data}

	var doc json.RawMessage
	if err := c.call(ctx, http.MethodPatch, path, body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) documentsPath(databaseID, collectionID string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(databaseID), url.PathEscape(collectionID))
}

func (c *Client) call(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求失败: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Response-Format", "1.5.0")
	req.Header.Set("X-Appwrite-Project", c.projectID)
	if c.apiKey != "" {
		req.Header.Set("X-Appwrite-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("文档数据库请求失败")
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}
