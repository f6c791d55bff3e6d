package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ragengine/console/internal/pages"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth pages.Auth
	log  *zap.Logger
}

func NewAuthHandler(auth pages.Auth, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type LoginReq struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type RegisterReq struct {
	FullName        string `form:"full_name"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

type ForgotPasswordReq struct {
	Email string `form:"email"`
}

// Landing renders GET /
func (h *AuthHandler) Landing(c *gin.Context) {
	p := pages.NewLanding(h.auth)
	label, href := p.PrimaryAction()
	c.HTML(http.StatusOK, "landing.html", gin.H{"Title": "Home", "Page": p, "Action": []string{label, href}})
}

// LoginPage renders GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	p := pages.NewLogin(h.auth, h.log)
	if c.Query("registered") != "" {
		p.Notice = pages.MsgConfirmEmail
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Sign in", "Page": p})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	req := LoginReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid form", "error": err.Error()})
		return
	}

	p := pages.NewLogin(h.auth, h.log)
	p.Email, p.Password = req.Email, req.Password
	if !p.Submit(c.Request.Context()) {
		p.Password = ""
		c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Sign in", "Page": p})
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// RegisterPage renders GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Title": "Create account", "Page": pages.NewRegister(h.auth, h.log)})
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	req := RegisterReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid form", "error": err.Error()})
		return
	}

	p := pages.NewRegister(h.auth, h.log)
	p.FullName, p.Email = req.FullName, req.Email
	p.Password, p.ConfirmPassword = req.Password, req.ConfirmPassword
	if !p.Submit(c.Request.Context()) {
		p.Password, p.ConfirmPassword = "", ""
		c.HTML(http.StatusOK, "register.html", gin.H{"Title": "Create account", "Page": p})
		return
	}
	if p.Notice != "" {
		c.Redirect(http.StatusSeeOther, "/login?registered=1")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// ForgotPasswordPage renders GET /forgot-password
func (h *AuthHandler) ForgotPasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "forgot_password.html", gin.H{"Title": "Reset password", "Page": pages.NewForgotPassword(h.auth, h.log)})
}

// ForgotPassword handles POST /forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	req := ForgotPasswordReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid form", "error": err.Error()})
		return
	}

	p := pages.NewForgotPassword(h.auth, h.log)
	p.Email = req.Email
	p.Submit(c.Request.Context())
	c.HTML(http.StatusOK, "forgot_password.html", gin.H{"Title": "Reset password", "Page": p})
}

// Logout handles POST /logout. The local session is gone even when revoking it remotely fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context()); err != nil {
		h.log.Warn("sign out failed", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}
