package handler

import (
	"net/http"
	"time"

	"anoa.com/threadboard/internal/middleware"
	"anoa.com/threadboard/internal/modules/user/dto"
	"anoa.com/threadboard/internal/modules/user/service"
	"anoa.com/threadboard/pkg/response"
	"anoa.com/threadboard/pkg/session"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service      service.AuthService
	loginURL     string
	cookieTTL    time.Duration
	secureCookie bool
}

func NewAuthHandler(service service.AuthService, loginURL string, cookieTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		loginURL:     loginURL,
		cookieTTL:    cookieTTL,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.setSessionCookie(c, resp.AccessToken)
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.setSessionCookie(c, resp.AccessToken)
	c.JSON(http.StatusOK, resp)
}

// Logout always ends at the login page, even when no session was presented.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.ExtractToken(c)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusSeeOther, h.loginURL)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(h.cookieTTL.Seconds()), "/", "", h.secureCookie, true)
}
