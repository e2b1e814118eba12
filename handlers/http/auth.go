package httpHandler

import (
	"net/http"
	"strings"

	"finance-server/entities"
	"finance-server/usecases"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

type AuthHandler struct {
	auth   *usecases.AuthUseCase
	resets *usecases.PasswordResetUseCase
}

func NewAuthHandler(auth *usecases.AuthUseCase, resets *usecases.PasswordResetUseCase) *AuthHandler {
	return &AuthHandler{auth: auth, resets: resets}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email       string `json:"email"`
	FrontendURL string `json:"frontend_url"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
}

func userView(u *entities.User, withEmail bool) userResponse {
	resp := userResponse{ID: u.ID, Username: u.Username, Name: u.Name}
	if withEmail {
		resp.Email = u.Email
	}
	return resp
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	_, err := h.auth.Register(c.Request.Context(), usecases.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "User registered successfully"})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	user, token, expiresAt, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"user":       userView(user, false),
		"expires_at": expiresAt.UTC(),
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, userView(currentUser(c), true))
}

// RequestReset handles POST /api/auth/reset-password
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	origin := req.FrontendURL
	if origin == "" {
		origin = c.GetHeader("Origin")
	}
	if err := h.resets.RequestReset(c.Request.Context(), req.Email, origin); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Password reset email sent"})
}

// ExchangeReset handles POST /api/auth/reset-password/:token
func (h *AuthHandler) ExchangeReset(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	err := h.resets.ExchangeReset(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		// an unusable link is the client's problem, not an auth failure
		if statusFor(err) == http.StatusUnauthorized {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid or expired token"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Password has been reset"})
}

// DeleteAccount handles DELETE /api/auth/delete-account
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "password is required"})
		return
	}

	if err := h.auth.DeleteAccount(c.Request.Context(), currentUser(c).ID, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Account deleted successfully"})
}

// RequireAuth verifies the bearer token and loads its user into the context.
func (h *AuthHandler) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Missing Authorization Header"})
		return
	}

	user, err := h.auth.ResolveToken(c.Request.Context(), strings.TrimSpace(raw))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Set(userContextKey, user)
	c.Next()
}

func currentUser(c *gin.Context) *entities.User {
	return c.MustGet(userContextKey).(*entities.User)
}
