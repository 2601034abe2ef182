package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"regdesk/internal/registration/form"
	"regdesk/internal/registration/photo"
	id "regdesk/pkg/domain"
	dErrors "regdesk/pkg/domain-errors"
)

// Body limits.
const (
	maxFormBytes      = 1 << 20
	maxMultipartBytes = photo.MaxSize + 1<<20
	photoField        = "photo"
)

// readValues decodes a form posted as JSON, url-encoded or multipart.
func readValues(w http.ResponseWriter, r *http.Request) (form.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFormBytes))
		if err != nil {
			return form.Values{}, dErrors.New(dErrors.CodeBadRequest, "request body too large")
		}
		if len(data) == 0 {
			return form.FromURLValues(nil), nil
		}
		v, err := form.FromJSON(data)
		if err != nil {
			return form.Values{}, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
		}
		return v, nil
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
		if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
			return form.Values{}, dErrors.New(dErrors.CodeBadRequest, "invalid form body")
		}
		return form.FromURLValues(r.PostForm), nil
	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			return form.Values{}, dErrors.New(dErrors.CodeBadRequest, "invalid form body")
		}
		return form.FromURLValues(r.PostForm), nil
	}
}

// readPhoto reads the "photo" part of a multipart upload. Content past the
// size limit is kept short of the whole file but long enough to be rejected.
func readPhoto(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, dErrors.New(dErrors.CodeValidation, photo.MsgTooLarge)
		}
		return "", nil, dErrors.New(dErrors.CodeBadRequest, "expected a multipart upload")
	}
	file, header, err := r.FormFile(photoField)
	if err != nil {
		return "", nil, dErrors.New(dErrors.CodeBadRequest, "missing photo file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, photo.MaxSize+1))
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read photo")
	}
	return header.Header.Get("Content-Type"), data, nil
}

func registrationIDParam(r *http.Request) (id.RegistrationID, error) {
	regID, _, _, err := id.ParseRegistrationID(chi.URLParam(r, "id"))
	if err != nil {
		return "", err
	}
	return regID, nil
}

// confirmed reads ?confirm=; anything unparseable counts as not confirmed.
func confirmed(r *http.Request) bool {
	ok, err := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return err == nil && ok
}

// wantsHTML reports whether the client prefers an HTML rendering.
func wantsHTML(r *http.Request) bool {
	for _, part := range splitAccept(r.Header.Get("Accept")) {
		if part == "text/html" {
			return true
		}
		if part == "application/json" {
			return false
		}
	}
	return false
}

func splitAccept(header string) []string {
	var out []string
	for _, part := range strings.Split(header, ",") {
		if mt, _, err := mime.ParseMediaType(part); err == nil {
			out = append(out, mt)
		}
	}
	return out
}
