package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"wallet_live/internal/api"
)

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + "을(를) 입력해주세요")
		}
		return nil
	}
}

// LoginForm prompts for credentials into req.
func LoginForm(req *api.LoginRequest) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("아이디").
				Value(&req.Username).
				Validate(validateRequired("아이디")),
			huh.NewInput().
				Title("비밀번호").
				EchoMode(huh.EchoModePassword).
				Value(&req.Password).
				Validate(validateRequired("비밀번호")),
		),
	)
}

// SignupForm prompts for a new account into req. Email is optional.
func SignupForm(req *api.SignupRequest) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("아이디").
				Value(&req.Username).
				Validate(validateRequired("아이디")),
			huh.NewInput().
				Title("비밀번호").
				EchoMode(huh.EchoModePassword).
				Value(&req.Password).
				Validate(validateRequired("비밀번호")),
			huh.NewInput().
				Title("이메일").
				Description("선택 항목").
				Value(&req.Email),
		),
	)
}
