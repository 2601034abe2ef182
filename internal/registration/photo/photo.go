// Package photo accepts passport photo uploads and holds them until the
// registration they belong to is submitted or discarded.
package photo

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"

	id "regdesk/pkg/domain"
	dErrors "regdesk/pkg/domain-errors"
)

// MaxSize is the largest accepted upload in bytes.
const MaxSize = 2 * 1024 * 1024

const (
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
)

const (
	MsgType     = "Only JPEG and PNG accepted."
	MsgTooLarge = "Photo must be under 2MB."
	MsgUploaded = "Photo uploaded!"
)

// Rejection reasons, used as metric labels.
const (
	ReasonType = "type"
	ReasonSize = "size"
)

// Accept checks the declared type, the sniffed content and the size, and
// returns the photo as a data URI. The type check runs first.
func Accept(contentType string, data []byte) (string, error) {
	declared := normalizeType(contentType)
	if declared != TypeJPEG && declared != TypePNG {
		return "", dErrors.New(dErrors.CodeValidation, MsgType)
	}
	if sniffed := normalizeType(http.DetectContentType(data)); sniffed != declared {
		return "", dErrors.New(dErrors.CodeValidation, MsgType)
	}
	if len(data) > MaxSize {
		return "", dErrors.New(dErrors.CodeValidation, MsgTooLarge)
	}
	return "data:" + declared + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Reason maps an Accept error to its metric label.
func Reason(err error) string {
	if dErrors.MessageOf(err) == MsgTooLarge {
		return ReasonSize
	}
	return ReasonType
}

func normalizeType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return TypeJPEG
	}
	return ct
}

// Cache holds accepted photos per scheme and device.
type Cache struct {
	items *cache.Cache
}

// NewCache builds a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{items: cache.New(ttl, 2*ttl)}
}

func key(scheme id.SchemeSlug, device id.DeviceID) string {
	return scheme.String() + ":" + device.String()
}

// Put stores the data URI, replacing any earlier upload.
func (c *Cache) Put(scheme id.SchemeSlug, device id.DeviceID, dataURI string) {
	c.items.SetDefault(key(scheme, device), dataURI)
}

// Get returns the cached data URI.
func (c *Cache) Get(scheme id.SchemeSlug, device id.DeviceID) (string, bool) {
	v, ok := c.items.Get(key(scheme, device))
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has reports whether a photo is cached.
func (c *Cache) Has(scheme id.SchemeSlug, device id.DeviceID) bool {
	_, ok := c.Get(scheme, device)
	return ok
}

// Remove drops the cached photo.
func (c *Cache) Remove(scheme id.SchemeSlug, device id.DeviceID) {
	c.items.Delete(key(scheme, device))
}
