package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/user/moviefinder/internal/config"
	"github.com/user/moviefinder/internal/session"
	"github.com/user/moviefinder/internal/utils"
)

const sessionKey = "sid"

// Handler HTTP 处理器
type Handler struct {
	Config   *config.Config
	Sessions *session.Registry
	logger   zerolog.Logger
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, registry *session.Registry, logger zerolog.Logger) *Handler {
	return &Handler{
		Config:   cfg,
		Sessions: registry,
		logger:   logger.With().Str("component", "handler").Logger(),
	}
}

// currentSession 通过 Cookie 找到会话，不存在或已过期时新建（相当于页面首次挂载）
func (h *Handler) currentSession(c *gin.Context) *session.Session {
	store := sessions.Default(c)
	if id, ok := store.Get(sessionKey).(string); ok {
		if s, found := h.Sessions.Get(id); found {
			return s
		}
	}

	s := h.Sessions.Create()
	store.Set(sessionKey, s.ID)
	if err := store.Save(); err != nil {
		h.logger.Error().Err(err).Msg("保存会话 Cookie 失败")
	}
	return s
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.Sessions.Count(),
	})
}

// EndSession 离开页面，丢弃会话
func (h *Handler) EndSession(c *gin.Context) {
	store := sessions.Default(c)
	if id, ok := store.Get(sessionKey).(string); ok {
		h.Sessions.Delete(id)
	}
	store.Clear()
	if err := store.Save(); err != nil {
		h.logger.Error().Err(err).Msg("清除会话 Cookie 失败")
	}
	utils.Success(c, nil)
}
