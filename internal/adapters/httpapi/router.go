package httpapi

import (
	"context"
	"time"
	"timelium/internal/adapters/httpapi/middleware"
	postEntity "timelium/internal/core/post"
	userEntity "timelium/internal/core/user"
	userPort "timelium/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserUseCase inbound port for profile endpoints
type UserUseCase interface {
	CreateUser(ctx context.Context, in userPort.CreateUserInput) (*userEntity.User, error)
	GetByUsername(ctx context.Context, username string) (*userEntity.User, error)
	UpdateProfile(ctx context.Context, userID string, upd userPort.ProfileUpdate) (*userEntity.User, error)
	AddSkill(ctx context.Context, userID, skill string) (*userEntity.User, error)
	SearchUsers(ctx context.Context, query string) ([]*userEntity.User, error)
	ListUsers(ctx context.Context) ([]*userEntity.User, error)
	AddProject(ctx context.Context, userID string, p userEntity.Project) (*userEntity.User, error)
	AddExperience(ctx context.Context, userID string, e userEntity.Experience) (*userEntity.User, error)
	AddEducation(ctx context.Context, userID string, e userEntity.Education) (*userEntity.User, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, authorID, content, image string) (*postEntity.Post, error)
	FindByUser(ctx context.Context, userID string) ([]*postEntity.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (*postEntity.Post, error)
	DeletePost(ctx context.Context, postID, requesterID string) error
}

type FeedUseCase interface {
	Compose(ctx context.Context, viewerID, query string) ([]*postEntity.Post, error)
}

// SetupRoutes only wires routes; use cases are injected from outside.
func SetupRoutes(
	userUC UserUseCase,
	postUC PostUseCase,
	feedUC FeedUseCase,
	jwtSecret []byte,
	logger *zap.Logger,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	auth := middleware.JWTAuthMiddleware(jwtSecret)
	uc := NewUserController(userUC, logger)
	pc := NewPostController(postUC, feedUC, logger)

	posts := r.Group("/posts")
	{
		posts.GET("", middleware.OptionalJWTAuth(jwtSecret), pc.ListPosts)
		posts.GET("/feed", auth, pc.GetFeed)
		posts.GET("/user/:userId", pc.GetUserPosts)
		posts.POST("", auth, pc.CreatePost)
		posts.DELETE("/:id", auth, pc.DeletePost)
		posts.POST("/:id/like", auth, pc.ToggleLike)
	}

	users := r.Group("/users")
	{
		users.POST("", uc.CreateUser)
		users.GET("", uc.ListUsers)
		users.GET("/search", uc.SearchUsers)
		users.GET("/:username", uc.GetUser)
		users.PUT("/profile", auth, uc.UpdateProfile)
		users.PUT("/profile/update", auth, uc.UpdateProfile)
		users.POST("/skills", auth, uc.AddSkill)
		users.POST("/projects", auth, uc.AddProject)
		users.POST("/experience", auth, uc.AddExperience)
		users.POST("/education", auth, uc.AddEducation)
	}
	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
