package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/paper-explorer/internal/common"
	"github.com/suPer8Hu/paper-explorer/internal/httpapi/middleware"
	"github.com/suPer8Hu/paper-explorer/internal/models"
)

type registerReq struct {
	Username string `json:"username" binding:"notblank"`
	Email    string `json:"email" binding:"notblank"`
	Password string `json:"password" binding:"required"`
}

type loginReq struct {
	Username string `json:"username" binding:"notblank"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if !h.bind(c, &req) {
		return
	}
	u, err := h.Users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.startSession(c, u)
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if !h.bind(c, &req) {
		return
	}
	u, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.startSession(c, u)
}

func (h *Handler) startSession(c *gin.Context, u *models.User) {
	token, err := h.Auth.Issue(c.Request.Context(), u.ID, u.Username)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.setSessionCookie(c, token, int(h.Auth.TTL().Seconds()))
	common.OK(c, gin.H{"user": u.Public(), "token": token})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.Revoke(c.Request.Context(), middleware.TokenFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}
	h.setSessionCookie(c, "", -1)
	common.OK(c, gin.H{})
}

func (h *Handler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), p.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{"user": u.Public()})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.CookieSecure, true)
}
