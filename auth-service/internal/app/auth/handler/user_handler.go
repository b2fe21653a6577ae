package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dentalcare/auth-service/internal/app/auth/entity"
	"dentalcare/auth-service/internal/app/auth/service"
)

type UserHandler struct {
	userService service.UserServiceInterface
}

func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.userService.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list users",
		})
		return
	}

	infos := make([]*entity.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, entity.NewUserInfo(u))
	}

	c.JSON(http.StatusOK, infos)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid user id",
		})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondUserError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, entity.NewUserInfo(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid user id",
		})
		return
	}

	var req entity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid request body",
		})
		return
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "User not found",
			})
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Unknown role",
			})
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Conflict",
				"message": "Username or email already taken",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to update user",
			})
		}
		return
	}

	c.JSON(http.StatusOK, entity.NewUserInfo(user))
}

// ChangeRole назначает роль через query параметр: PATCH /:id/role?role=DENTIST
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid user id",
		})
		return
	}

	role := c.Query("role")
	if role == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Role query parameter required",
		})
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), id, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Unknown role",
			})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "User not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to change role",
			})
		}
		return
	}

	c.JSON(http.StatusOK, entity.NewUserInfo(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid user id",
		})
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		h.respondUserError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "User deleted",
	})
}

// GetByUsername - внутренний эндпоинт для clinic-service
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.respondUserError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, entity.NewUserInfo(user))
}

// PromoteToPatient - внутренний эндпоинт: clinic-service вызывает его
// при записи клиента на первый прием
func (h *UserHandler) PromoteToPatient(c *gin.Context) {
	user, err := h.userService.PromoteToPatient(c.Request.Context(), c.Param("username"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "User not found",
			})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Conflict",
				"message": "Only customers can be promoted to patients",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to promote user",
			})
		}
		return
	}

	c.JSON(http.StatusOK, entity.NewUserInfo(user))
}

func (h *UserHandler) respondUserError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "User not found",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal Server Error",
		"message": fallback,
	})
}
