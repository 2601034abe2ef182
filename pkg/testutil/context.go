package testutil

import (
	"net/http"

	id "regdesk/pkg/domain"
	"regdesk/pkg/platform/middleware/device"
)

// WithDevice attaches the device cookie, so the request passes through the
// device middleware as the given browser.
func WithDevice(req *http.Request, deviceID id.DeviceID) *http.Request {
	req.AddCookie(&http.Cookie{Name: device.CookieName, Value: deviceID.String()})
	return req
}
