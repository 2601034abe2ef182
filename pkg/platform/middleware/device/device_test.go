package device

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "regdesk/pkg/domain"
	"regdesk/pkg/requestcontext"
)

func TestMiddleware(t *testing.T) {
	var seen id.DeviceID
	h := Middleware(false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestcontext.DeviceID(r.Context())
	}))

	t.Run("mints a cookie for a new browser", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.False(t, seen.IsNil())
		assert.Equal(t, seen.String(), cookies[0].Value)
	})

	t.Run("reuses an existing cookie", func(t *testing.T) {
		existing := id.NewDeviceID()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: existing.String()})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Empty(t, rr.Result().Cookies())
		assert.Equal(t, existing, seen)
	})

	t.Run("replaces a malformed cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		require.Len(t, rr.Result().Cookies(), 1)
		assert.NotEqual(t, "not-a-uuid", rr.Result().Cookies()[0].Value)
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "unknown device", DisplayName(""))

	chromeAndroid := "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	name := DisplayName(chromeAndroid)
	assert.Contains(t, name, "Chrome")
	assert.Contains(t, name, "(mobile)")
}
