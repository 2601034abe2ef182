package service

import "math/rand/v2"

// CaptchaAlphabet leaves out characters that read alike (0/O, 1/I).
const CaptchaAlphabet = "ABCDEFGHJKLMNPRSTUVWXYZ23456789"

// CaptchaLength is the number of characters in a code.
const CaptchaLength = 6

// NewCaptcha returns a fresh display code.
func NewCaptcha() string {
	b := make([]byte, CaptchaLength)
	for i := range b {
		b[i] = CaptchaAlphabet[rand.IntN(len(CaptchaAlphabet))]
	}
	return string(b)
}

// Captcha returns a new code for the form.
func (e *Engine) Captcha() string {
	return e.captcha()
}
