package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const userIDContextKey = "jatrack_user_id"

var errMissingDB = errors.New("database dependency required")
var errMissingTokens = errors.New("token issuer dependency required")

// Dependencies wires the HTTP layer.
type Dependencies struct {
	DB     *gorm.DB
	Tokens *TokenIssuer
	Logger *zap.Logger
}

// NewHTTPHandler builds the full REST surface consumed by the TUI and CLI.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.DB == nil {
		return nil, errMissingDB
	}
	if deps.Tokens == nil {
		return nil, errMissingTokens
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	h := &httpHandler{db: deps.DB, tokens: deps.Tokens, logger: logger}

	router.POST("/auth/register", h.handleRegister)
	router.POST("/auth/login", h.handleLogin)

	apps := router.Group("/api/applications")
	apps.Use(h.authorizeRequest)
	apps.GET("", h.handleSearch)
	apps.POST("", h.handleCreate)
	apps.GET("/:id", h.handleGet)
	apps.PUT("/:id", h.handleUpdate)
	apps.DELETE("/:id", h.handleDelete)

	return router, nil
}

type httpHandler struct {
	db     *gorm.DB
	tokens *TokenIssuer
	logger *zap.Logger
}

// authorizeRequest resolves the bearer token to a user id or answers 401.
func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing or invalid"})
		return
	}
	userID, err := h.tokens.Validate(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(userIDContextKey, userID)
	c.Next()
}

func currentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDContextKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// requestID tags every request for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}
