package admin

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/alenjoby/studioaljo-core/internal/database"
	"github.com/alenjoby/studioaljo-core/internal/gallery"
	"github.com/alenjoby/studioaljo-core/internal/users"
	"github.com/gin-gonic/gin"
)

// Handler serves the admin panel API. Authentication is a fixed credential
// pair from the environment plus a bearer-token session set.
type Handler struct {
	username string
	password string
	sessions SessionStore
}

func NewHandler(sessions SessionStore) *Handler {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "iamtheadmin"
	}
	return &Handler{username: username, password: password, sessions: sessions}
}

type adminLoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) LoginHandler(c *gin.Context) {
	var dto adminLoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil || dto.Username == "" || dto.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	if dto.Username != h.username || dto.Password != h.password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token := newToken()
	h.sessions.Add(token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

func (h *Handler) LogoutHandler(c *gin.Context) {
	if token := h.requestToken(c); token != "" {
		h.sessions.Remove(token)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// RequireAdmin gates panel routes on a live session token, read from the
// Authorization header or a token query parameter.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := h.requestToken(c)
		if token == "" || !h.sessions.Has(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

func (h *Handler) requestToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Query("token")
}

type adminUserRow struct {
	users.UserResponse
	GalleryCount int64 `json:"galleryCount"`
}

func (h *Handler) ListUsersHandler(c *gin.Context) {
	var list []users.User
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := make([]adminUserRow, 0, len(list))
	for i := range list {
		var count int64
		database.DB.Model(&gallery.Item{}).
			Where("user_id = ?", strconv.FormatUint(uint64(list[i].ID), 10)).
			Count(&count)
		rows = append(rows, adminUserRow{UserResponse: users.ToResponse(&list[i]), GalleryCount: count})
	}

	c.JSON(http.StatusOK, gin.H{"users": rows, "count": len(rows)})
}

// DeleteUserHandler removes a user and their gallery records. Backing storage
// objects are left to the gallery bulk-delete endpoint, which owns the
// best-effort storage cleanup.
func (h *Handler) DeleteUserHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	userKey := strconv.FormatUint(id, 10)
	database.DB.Where("user_id = ?", userKey).Delete(&gallery.Item{})

	res := database.DB.Delete(&users.User{}, uint(id))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *Handler) StatsHandler(c *gin.Context) {
	var userCount, itemCount, favoriteCount int64
	database.DB.Model(&users.User{}).Count(&userCount)
	database.DB.Model(&gallery.Item{}).Count(&itemCount)
	database.DB.Model(&gallery.Item{}).Where("is_favorite = ?", true).Count(&favoriteCount)

	c.JSON(http.StatusOK, gin.H{
		"users":     userCount,
		"images":    itemCount,
		"favorites": favoriteCount,
	})
}
