package httpapi

import (
	"net/http"
	"timelium/internal/adapters/httpapi/middleware"
	userEntity "timelium/internal/core/user"
	userPort "timelium/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	uc     UserUseCase
	logger *zap.Logger
}

func NewUserController(uc UserUseCase, logger *zap.Logger) *UserController {
	return &UserController{uc: uc, logger: logger}
}

func (ctl *UserController) CreateUser(c *gin.Context) {
	var req userPort.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	u, err := ctl.uc.CreateUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, userPort.ToDTO(u))
}

func (ctl *UserController) GetUser(c *gin.Context) {
	u, err := ctl.uc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, userPort.ToDTO(u))
}

func (ctl *UserController) SearchUsers(c *gin.Context) {
	users, err := ctl.uc.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": toUserDTOs(users)})
}

func (ctl *UserController) UpdateProfile(c *gin.Context) {
	var req userPort.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	u, err := ctl.uc.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, userPort.ToDTO(u))
}

func (ctl *UserController) AddSkill(c *gin.Context) {
	var req struct {
		Skill string `json:"skill" binding:"required"`
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
	u, err := ctl.uc.AddSkill(c.Request.Context(), userID, req.Skill)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, userPort.ToDTO(u))
}

func (ctl *UserController) ListUsers(c *gin.Context) {
	users, err := ctl.uc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": toUserDTOs(users)})
}

func (ctl *UserController) AddProject(c *gin.Context) {
	var req userEntity.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	ctl.respondEntry(c, func(userID string) (*userEntity.User, error) {
		return ctl.uc.AddProject(c.Request.Context(), userID, req)
	})
}

func (ctl *UserController) AddExperience(c *gin.Context) {
	var req userEntity.Experience
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	ctl.respondEntry(c, func(userID string) (*userEntity.User, error) {
		return ctl.uc.AddExperience(c.Request.Context(), userID, req)
	})
}

func (ctl *UserController) AddEducation(c *gin.Context) {
	var req userEntity.Education
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	ctl.respondEntry(c, func(userID string) (*userEntity.User, error) {
		return ctl.uc.AddEducation(c.Request.Context(), userID, req)
	})
}

func (ctl *UserController) respondEntry(c *gin.Context, add func(userID string) (*userEntity.User, error)) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	u, err := add(userID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, userPort.ToDTO(u))
}

func toUserDTOs(users []*userEntity.User) []*userPort.UserDTO {
	out := make([]*userPort.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userPort.ToDTO(u))
	}
	return out
}
