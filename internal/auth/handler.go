package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alenjoby/studioaljo-core/internal/database"
	"github.com/alenjoby/studioaljo-core/internal/users"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type loginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type googleLoginDTO struct {
	GoogleID       string `json:"googleId" binding:"required"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

func LoginHandler(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	var u users.User
	if err := database.DB.First(&u, "email = ?", strings.ToLower(dto.Email)).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if u.PasswordHash == nil {
		// Google-linked account, no local password to compare.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(dto.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	touchLastActive(&u)

	tok, err := GenerateToken(&u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   tok,
		"user":    users.ToResponse(&u),
	})
}

// GoogleLoginHandler signs in a federated user, creating the account on first
// sight of the google id. The id is treated as an opaque, already-verified
// identifier.
func GoogleLoginHandler(c *gin.Context) {
	var dto googleLoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "googleId is required"})
		return
	}

	var u users.User
	err := database.DB.First(&u, "google_id = ?", dto.GoogleID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, nerr := users.NewUser(dto.Name, dto.Email, "", dto.GoogleID)
		if nerr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": nerr.Error()})
			return
		}
		created.ProfilePicture = dto.ProfilePicture
		if err := database.DB.Create(created).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		u = *created
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	default:
		if dto.ProfilePicture != "" {
			u.ProfilePicture = dto.ProfilePicture
		}
		touchLastActive(&u)
	}

	tok, err := GenerateToken(&u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   tok,
		"user":    users.ToResponse(&u),
	})
}

func MeHandler(c *gin.Context) {
	uidv, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	uid := uidv.(uint)

	var u users.User
	if err := database.DB.First(&u, uid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, users.ToResponse(&u))
}

func touchLastActive(u *users.User) {
	u.LastActive = time.Now()
	database.DB.Model(u).Update("last_active", u.LastActive)
}
