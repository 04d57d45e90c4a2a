package handler

import (
	"fmt"
	"net/http"

	"caixa-be/internal/auth"
	"caixa-be/internal/user"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var req user.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	sess, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	http.SetCookie(c.Writer, auth.SessionCookie(sess.Token, sess.ExpiresAt, h.SecureCookies))
	c.JSON(http.StatusCreated, sess)
}

func (h *Handler) Login(c *gin.Context) {
	var req user.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	sess, err := h.Users.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	http.SetCookie(c.Writer, auth.SessionCookie(sess.Token, sess.ExpiresAt, h.SecureCookies))
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.Users.Me(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
