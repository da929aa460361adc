package httpapi

import (
	"net/http"
	"timelium/internal/adapters/httpapi/middleware"
	postPort "timelium/internal/ports/post"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	pc     PostUseCase
	fc     FeedUseCase
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, fc FeedUseCase, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, fc: fc, logger: logger}
}

// GetFeed GET /posts/feed?q=
func (ctl *PostController) GetFeed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	posts, err := ctl.fc.Compose(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": postPort.ToDTOs(posts)})
}

// ListPosts GET /posts?q= ; works without a token, personalised when one is sent
func (ctl *PostController) ListPosts(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)
	posts, err := ctl.fc.Compose(c.Request.Context(), viewerID, c.Query("q"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": postPort.ToDTOs(posts)})
}

func (ctl *PostController) GetUserPosts(c *gin.Context) {
	posts, err := ctl.pc.FindByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": postPort.ToDTOs(posts)})
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
		Image   string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	p, err := ctl.pc.CreatePost(c.Request.Context(), userID, req.Content, req.Image)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, postPort.ToDTO(p))
}

func (ctl *PostController) ToggleLike(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	p, err := ctl.pc.ToggleLike(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, postPort.ToDTO(p))
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	if err := ctl.pc.DeletePost(c.Request.Context(), c.Param("id"), userID); err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}
