package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"wallet_live/internal/auth"
	"wallet_live/internal/config"
	"wallet_live/internal/http/dto"
	"wallet_live/internal/metrics"
	"wallet_live/internal/model"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// AuthHandler answers in plain text on failure, matching what the wallet
// client shows to the user.
type AuthHandler struct {
	users   *auth.Registry
	tokens  *auth.TokenManager
	ttl     time.Duration
	log     *zap.Logger
	metrics *metrics.Server
}

func NewAuthHandler(cfg *config.Config, users *auth.Registry, tokens *auth.TokenManager, logger *zap.Logger, m *metrics.Server) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, ttl: cfg.JWTTTL, log: logger, metrics: m}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}
	if _, err := h.users.Signup(req.Username, req.Password, req.Email); err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			c.String(http.StatusBadRequest, "이미 사용 중인 아이디입니다.")
		case errors.Is(err, auth.ErrInvalidSignup):
			c.String(http.StatusBadRequest, "아이디와 비밀번호를 확인해주세요.")
		default:
			h.log.Error("signup failed", zap.String("username", req.Username), zap.Error(err))
			c.String(http.StatusInternalServerError, "회원가입에 실패했습니다.")
		}
		return
	}
	c.String(http.StatusCreated, "회원가입이 완료되었습니다.")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}
	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		h.metrics.ObserveLoginFailure()
		if errors.Is(err, auth.ErrAccountLocked) {
			c.String(http.StatusLocked, "로그인 시도 횟수를 초과하여 계정이 잠겼습니다.")
			return
		}
		c.String(http.StatusUnauthorized, "아이디 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	access, err := h.tokens.GenerateToken(user)
	if err != nil {
		h.log.Error("token generation failed", zap.Int64("user_id", user.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "로그인에 실패했습니다.")
		return
	}
	refresh := uuid.NewString()

	maxAge := int(h.ttl / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, access, maxAge, "/", "", false, true)
	c.SetCookie(refreshCookie, refresh, maxAge*24*7, "/", "", false, true)

	c.JSON(http.StatusOK, model.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: model.User{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

func (h *AuthHandler) CheckUsername(c *gin.Context) {
	name := c.Query("username")
	if name == "" {
		c.String(http.StatusBadRequest, "아이디를 입력해주세요.")
		return
	}
	if h.users.Exists(name) {
		c.String(http.StatusConflict, "이미 사용 중인 아이디입니다.")
		return
	}
	c.String(http.StatusOK, "사용 가능한 아이디입니다.")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(accessCookie, "", -1, "/", "", false, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
