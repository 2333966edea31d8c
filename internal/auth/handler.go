package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/goShop/internal/middleware"
	"github.com/MrEthical07/goShop/internal/password"
	"github.com/MrEthical07/goShop/internal/store"
)

// Handler exposes the auth flows over HTTP.
type Handler struct {
	svc     *Service
	cookies CookieWriter
	google  *GoogleFlow
	log     *slog.Logger
}

// NewHandler builds the HTTP layer. google may be nil when the provider
// is not configured.
func NewHandler(svc *Service, cookies CookieWriter, google *GoogleFlow, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, cookies: cookies, google: google, log: log}
}

// Register mounts the auth routes on the given group.
func (h *Handler) Register(r *gin.RouterGroup, protect gin.HandlerFunc) {
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.POST("/refresh-token", h.RefreshToken)
	r.GET("/profile", protect, h.Profile)
	if h.google != nil {
		r.GET("/google", h.GoogleRedirect)
		r.GET("/google/callback", h.GoogleCallback)
	}
}

func userResponse(u *store.User) gin.H {
	return gin.H{
		"_id":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, pair, err := h.svc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	case errors.Is(err, password.ErrTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters"})
		return
	case err != nil:
		h.fail(c, "signup", err)
		return
	}

	h.cookies.SetPair(c.Writer, pair)
	c.JSON(http.StatusCreated, userResponse(user))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
		return
	case err != nil:
		h.fail(c, "login", err)
		return
	}

	h.cookies.SetPair(c.Writer, pair)
	c.JSON(http.StatusOK, userResponse(user))
}

func (h *Handler) Logout(c *gin.Context) {
	refresh, _ := c.Cookie(refreshCookieName)
	if err := h.svc.Logout(c.Request.Context(), refresh); err != nil {
		h.fail(c, "logout", err)
		return
	}
	h.cookies.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) RefreshToken(c *gin.Context) {
	refresh, _ := c.Cookie(refreshCookieName)
	access, err := h.svc.RefreshAccessToken(c.Request.Context(), refresh)
	switch {
	case errors.Is(err, ErrNoRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No refresh token provided"})
		return
	case errors.Is(err, ErrRefreshMismatch):
		c.JSON(http.StatusForbidden, gin.H{"message": "Invalid refresh token"})
		return
	case err != nil:
		h.fail(c, "refresh", err)
		return
	}

	h.cookies.SetAccess(c.Writer, access)
	c.JSON(http.StatusOK, gin.H{"message": "Access token refreshed successfully"})
}

func (h *Handler) Profile(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		h.fail(c, "profile", errors.New("no authenticated user in context"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// fail is the catch-all boundary: the underlying message goes to the
// client and the structured log.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.log.Error("auth request failed", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
}
