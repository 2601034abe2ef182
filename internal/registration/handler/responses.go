package handler

import "regdesk/internal/registration/service"

// SchemesResponse lists the served schemes.
type SchemesResponse struct {
	Schemes []service.SchemeInfo `json:"schemes"`
}

// CaptchaResponse carries a fresh display captcha.
type CaptchaResponse struct {
	Captcha string `json:"captcha"`
}

// MessageResponse is a notice without further data.
type MessageResponse struct {
	Message string `json:"message"`
}
