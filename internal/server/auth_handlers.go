package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *httpHandler) handleRegister(c *gin.Context) {
	var req registerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || len(req.Password) < 6 {
		c.String(http.StatusBadRequest, "email and a password of at least 6 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := userRecord{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.db.Create(&user).Error; err != nil {
		// The unique index on email is the only conflict we expect here.
		c.String(http.StatusBadRequest, "email already registered")
		return
	}

	h.issueToken(c, user.ID)
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var req loginPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user userRecord
	err := h.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.String(http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("login lookup failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "login failed")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.String(http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.issueToken(c, user.ID)
}

func (h *httpHandler) issueToken(c *gin.Context, userID int64) {
	token, err := h.tokens.Issue(userID)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}
