package router

import (
	"vidshare/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// Handlers 全部业务 Handler
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Video    *handler.VideoHandler
	Reaction *handler.ReactionHandler
	Comment  *handler.CommentHandler
	Follow   *handler.FollowHandler
	History  *handler.HistoryHandler
}

// Setup 注册所有业务路由，authRequired 为 Bearer Token 校验中间件
func Setup(r *gin.Engine, h *Handlers, authRequired gin.HandlerFunc) {
	api := r.Group("/api")

	// --- 用户模块 ---
	user := api.Group("/user")
	{
		user.POST("/register", h.Auth.Register)
		user.POST("/login", h.Auth.Login)
		user.GET("/getIdByUsername/:username", h.User.GetIDByUsername)
		user.GET("/profile/:id", h.User.GetProfile)
		user.GET("/profile/username/:username", h.User.GetProfileByUsername)

		userAuth := user.Group("", authRequired)
		{
			userAuth.POST("/logout", h.Auth.Logout)
			userAuth.GET("/me", h.Auth.Me)
			userAuth.PUT("/profile-pic", h.User.UpdateProfilePic)
			userAuth.PUT("/username", h.User.ChangeUsername)
		}
	}

	// --- 视频模块 ---
	video := api.Group("/video")
	{
		// 公开接口（不需要登录）
		video.POST("/upload-video", h.Video.Upload)
		video.GET("/data", h.Video.GetFeed)
		video.GET("/user/:user_id", h.Video.ListByUser)
		video.GET("/category/:type", h.Video.ListByCategory)
		video.GET("/:id/details", h.Video.GetDetails)
		video.POST("/:id/view", h.Video.IncrementView)

		video.GET("/:id/like-dislike-count", h.Reaction.GetCounts)
		video.GET("/:id/like-status", h.Reaction.GetStatus)
		video.POST("/:id/like", h.Reaction.Like)
		video.POST("/:id/dislike", h.Reaction.Dislike)

		// 需要登录的接口
		video.POST("/upload-thumbnail", authRequired, h.Video.UploadThumbnail)
		video.PUT("/update-thumbnail/:id", authRequired, h.Video.UpdateMetadata)
		video.DELETE("/:id", authRequired, h.Video.Delete)
	}

	// --- 评论模块 ---
	comment := api.Group("/comment")
	{
		comment.GET("/:id/get-comment", h.Comment.List)
		comment.POST("/:id/add-comment", h.Comment.Add)
		comment.PUT("/:id/edit-comment", authRequired, h.Comment.Edit)
		comment.DELETE("/:id/delete-comment", authRequired, h.Comment.Delete)
	}

	// --- 观看记录模块 ---
	history := api.Group("/history", authRequired)
	{
		history.POST("/update", h.History.Update)
		history.GET("/get-history", h.History.List)
		history.DELETE("/clear-history", h.History.Clear)
	}

	// --- 关注模块 ---
	follower := api.Group("/follower")
	{
		follower.GET("/:user_id/count", h.Follow.FollowerCount)
		follower.GET("/:user_id/isFollowing/:current_user_id", h.Follow.IsFollowing)
		follower.POST("/add/:user_id", h.Follow.Follow)
		follower.DELETE("/delete/:user_id", h.Follow.Unfollow)
	}
}
