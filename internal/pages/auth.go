package pages

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	MsgSignInFailed      = "Failed to sign in"
	MsgSignUpFailed      = "Failed to create account"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgPasswordTooShort  = "Password must be at least 6 characters"
	MsgConfirmEmail      = "Check your email to confirm your account, then sign in."
	MsgResetSent         = "If an account exists for that email, a reset link is on its way."
	MsgResetFailed       = "Failed to send reset email"
)

var validate = validator.New()

type Login struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Error    string
	Notice   string

	auth Auth
	log  *zap.Logger
}

func NewLogin(auth Auth, log *zap.Logger) *Login {
	return &Login{auth: auth, log: log}
}

// Submit signs in and reports success. On failure Error holds the banner text.
func (p *Login) Submit(ctx context.Context) bool {
	p.Error = ""
	p.Email = strings.TrimSpace(p.Email)
	if err := validate.Struct(p); err != nil {
		p.Error = fieldMessage(err)
		return false
	}
	if err := p.auth.SignIn(ctx, p.Email, p.Password); err != nil {
		p.log.Error("sign in failed", zap.Error(err))
		p.Error = errorMessage(err, MsgSignInFailed)
		return false
	}
	return true
}

type Register struct {
	FullName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
	Error           string
	Notice          string

	auth Auth
	log  *zap.Logger
}

func NewRegister(auth Auth, log *zap.Logger) *Register {
	return &Register{auth: auth, log: log}
}

// Validate returns the banner for the first failing rule, or "".
// A password mismatch is reported before a short password.
func (p *Register) Validate() string {
	err := validate.Struct(p)
	if err == nil {
		return ""
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	for _, fe := range errs {
		if fe.Field() == "ConfirmPassword" {
			return MsgPasswordsMismatch
		}
	}
	for _, fe := range errs {
		if fe.Field() == "Password" && fe.Tag() == "min" {
			return MsgPasswordTooShort
		}
	}
	return fieldMessage(err)
}

// Submit validates locally, then creates the account. It reports whether the
// account was created; Notice is set when the email must be confirmed first.
func (p *Register) Submit(ctx context.Context) bool {
	p.Error, p.Notice = "", ""
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	if msg := p.Validate(); msg != "" {
		p.Error = msg
		return false
	}
	if err := p.auth.SignUp(ctx, p.Email, p.Password, p.FullName); err != nil {
		p.log.Error("sign up failed", zap.Error(err))
		p.Error = errorMessage(err, MsgSignUpFailed)
		return false
	}
	if !p.auth.State().Authenticated() {
		p.Notice = MsgConfirmEmail
	}
	return true
}

type ForgotPassword struct {
	Email  string `validate:"required,email"`
	Error  string
	Notice string

	auth Auth
	log  *zap.Logger
}

func NewForgotPassword(auth Auth, log *zap.Logger) *ForgotPassword {
	return &ForgotPassword{auth: auth, log: log}
}

func (p *ForgotPassword) Submit(ctx context.Context) bool {
	p.Error, p.Notice = "", ""
	p.Email = strings.TrimSpace(p.Email)
	if err := validate.Struct(p); err != nil {
		p.Error = fieldMessage(err)
		return false
	}
	if err := p.auth.ResetPassword(ctx, p.Email); err != nil {
		p.log.Error("password reset failed", zap.Error(err))
		p.Error = errorMessage(err, MsgResetFailed)
		return false
	}
	p.Notice = MsgResetSent
	return true
}

var fieldLabels = map[string]string{
	"FullName":        "Full name",
	"Email":           "Email",
	"Password":        "Password",
	"ConfirmPassword": "Confirm password",
}

func fieldMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err.Error()
	}
	fe := errs[0]
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	}
	return label + " is invalid"
}
