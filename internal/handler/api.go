package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/moviefinder/internal/utils"
)

// TermRequest 搜索框输入
type TermRequest struct {
	Term string `json:"term" binding:"max=200"`
}

// SearchState 当前搜索状态
func (h *Handler) SearchState(c *gin.Context) {
	s := h.currentSession(c)
	utils.Success(c, s.Search.State())
}

// SetTerm 更新搜索词（防抖后生效）
func (h *Handler) SetTerm(c *gin.Context) {
	var req TermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "搜索词格式错误")
		return
	}

	s := h.currentSession(c)
	s.Search.SetTerm(req.Term)
	utils.Success(c, s.Search.State())
}

// NextPage 下一页
func (h *Handler) NextPage(c *gin.Context) {
	s := h.currentSession(c)
	s.Search.Next()
	utils.Success(c, s.Search.State())
}

// PreviousPage 上一页
func (h *Handler) PreviousPage(c *gin.Context) {
	s := h.currentSession(c)
	s.Search.Previous()
	utils.Success(c, s.Search.State())
}

// Trending 热搜榜；加载失败或为空时 data 为 null
func (h *Handler) Trending(c *gin.Context) {
	s := h.currentSession(c)
	utils.Success(c, s.Trending.Records())
}

// MovieDetail 电影详情 + 预告片
func (h *Handler) MovieDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	s := h.currentSession(c)
	view := s.Detail.Navigate(c.Request.Context(), id)
	utils.Success(c, view)
}
