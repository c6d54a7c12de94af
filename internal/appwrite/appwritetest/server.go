// Package appwritetest 提供内存版文档数据库，用于测试
package appwritetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"
)

// Server 内存文档库，仅实现 documents 的 list/create/update
type Server struct {
	*httptest.Server

	ProjectID string

	mu        sync.Mutex
	documents map[string][]map[string]interface{} // collection path -> documents（插入顺序）
	fail      int
}

type query struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute"`
	Values    []interface{} `json:"values"`
}

// NewServer 启动测试服务
func NewServer(projectID string) *Server {
	s := &Server{
		ProjectID: projectID,
		documents: make(map[string][]map[string]interface{}),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// FailStatus 之后的请求全部返回该状态码，0 表示恢复正常
func (s *Server) FailStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = status
}

// Documents 返回集合内全部文档副本
func (s *Server) Documents(databaseID, collectionID string) []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.documents[collectionKey(databaseID, collectionID)]
	out := make([]map[string]interface{}, len(docs))
	for i, d := range docs {
		out[i] = copyDoc(d)
	}
	return out
}

func collectionKey(databaseID, collectionID string) string {
	return databaseID + "/" + collectionID
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != 0 {
		writeError(w, s.fail, "general_unknown", "injected failure")
		return
	}
	if r.Header.Get("X-Appwrite-Project") != s.ProjectID {
		writeError(w, http.StatusUnauthorized, "general_unauthorized_scope", "project mismatch")
		return
	}

	// /databases/{db}/collections/{col}/documents[/{id}]
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 5 || parts[0] != "databases" || parts[2] != "collections" || parts[4] != "documents" {
		writeError(w, http.StatusNotFound, "general_route_not_found", "route not found")
		return
	}
	key := collectionKey(parts[1], parts[3])

	switch {
	case r.Method == http.MethodGet && len(parts) == 5:
		s.list(w, r, key)
	case r.Method == http.MethodPost && len(parts) == 5:
		s.create(w, r, key)
	case r.Method == http.MethodPatch && len(parts) == 6:
		s.update(w, r, key, parts[5])
	default:
		writeError(w, http.StatusMethodNotAllowed, "general_route_not_found", "method not allowed")
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, key string) {
	docs := make([]map[string]interface{}, 0)
	for _, d := range s.documents[key] {
		docs = append(docs, d)
	}

	limit := 25
	var orders []query
	for _, raw := range r.URL.Query()["queries[]"] {
		var q query
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			writeError(w, http.StatusBadRequest, "general_query_invalid", err.Error())
			return
		}
		switch q.Method {
		case "equal":
			filtered := docs[:0:0]
			for _, d := range docs {
				for _, v := range q.Values {
					if fmt.Sprint(d[q.Attribute]) == fmt.Sprint(v) {
						filtered = append(filtered, d)
						break
					}
				}
			}
			docs = filtered
		case "orderDesc", "orderAsc":
			orders = append(orders, q)
		case "limit":
			if len(q.Values) > 0 {
				limit = int(toFloat(q.Values[0]))
			}
		}
	}

	// 多个排序条件按出现顺序依次比较
	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range orders {
			c := compareValues(docs[i][o.Attribute], docs[j][o.Attribute])
			if c == 0 {
				continue
			}
			if o.Method == "orderDesc" {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	total := len(docs)
	if len(docs) > limit {
		docs = docs[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"total": total, "documents": docs})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, key string) {
	var body struct {
		DocumentID string                 `json:"documentId"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "document_invalid_structure", err.Error())
		return
	}
	for _, d := range s.documents[key] {
		if d["$id"] == body.DocumentID {
			writeError(w, http.StatusConflict, "document_already_exists", "document already exists")
			return
		}
	}

	doc := copyDoc(body.Data)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	doc["$id"] = body.DocumentID
	doc["$createdAt"] = now
	doc["$updatedAt"] = now
	s.documents[key] = append(s.documents[key], doc)
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, key, id string) {
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "document_invalid_structure", err.Error())
		return
	}
	for _, d := range s.documents[key] {
		if d["$id"] == id {
			for k, v := range body.Data {
				d[k] = v
			}
			d["$updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeError(w, http.StatusNotFound, "document_not_found", "document not found")
}

// compareValues 数字按数值比较，RFC3339 时间按时间比较，其余按字符串
func compareValues(a, b interface{}) int {
	sa, aStr := a.(string)
	sb, bStr := b.(string)
	if !aStr || !bStr {
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	ta, errA := time.Parse(time.RFC3339Nano, sa)
	tb, errB := time.Parse(time.RFC3339Nano, sb)
	if errA == nil && errB == nil {
		return ta.Compare(tb)
	}
	return strings.Compare(sa, sb)
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func copyDoc(d map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, typ, message string) {
	writeJSON(w, status, map[string]interface{}{"code": status, "type": typ, "message": message})
}
