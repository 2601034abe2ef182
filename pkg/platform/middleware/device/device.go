// Package device identifies the browser a request comes from. The identifier
// lives in a long-lived cookie and scopes drafts, pending photos and the
// submission state, the way one browser profile scoped them in local storage.
package device

import (
	"net/http"
	"strings"
	"time"

	"github.com/mssola/useragent"

	id "regdesk/pkg/domain"
	"regdesk/pkg/requestcontext"
)

// CookieName is the cookie holding the device ID.
const CookieName = "regdesk_device"

// CookieMaxAge keeps the device stable across visits.
const CookieMaxAge = 365 * 24 * time.Hour

// Middleware reads the device cookie, minting and setting a new one when it is
// missing or malformed.
func Middleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID, ok := FromRequest(r)
			if !ok {
				deviceID = id.NewDeviceID()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    deviceID.String(),
					Path:     "/",
					MaxAge:   int(CookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := requestcontext.WithDeviceID(r.Context(), deviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromRequest parses the device cookie.
func FromRequest(r *http.Request) (id.DeviceID, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return id.DeviceID{}, false
	}
	deviceID, err := id.ParseDeviceID(c.Value)
	if err != nil || deviceID.IsNil() {
		return id.DeviceID{}, false
	}
	return deviceID, true
}

// DisplayName renders a short human label for a User-Agent, such as
// "Chrome on Android (mobile)". Empty input yields "unknown device".
func DisplayName(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "unknown device"
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		name, _ := ua.Browser()
		if name == "" {
			return "bot"
		}
		return "bot: " + name
	}

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "unknown browser"
	}
	label := browser
	if osName := ua.OS(); osName != "" {
		label += " on " + osName
	}
	if ua.Mobile() {
		label += " (mobile)"
	}
	return label
}
