package router

import (
	"github.com/gin-gonic/gin"

	"github.com/user/moviefinder/internal/handler"
	"github.com/user/moviefinder/internal/utils"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		// 搜索会话
		api.GET("/session", h.SearchState)
		api.DELETE("/session", h.EndSession)
		api.POST("/session/term", h.SetTerm)
		api.POST("/session/page/next", h.NextPage)
		api.POST("/session/page/previous", h.PreviousPage)

		// 热搜
		api.GET("/trending", h.Trending)

		// 详情
		api.GET("/movies/:id", h.MovieDetail)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "")
	})
}
