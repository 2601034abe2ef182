package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"regdesk/pkg/platform/httputil"
	"regdesk/pkg/requestcontext"
)

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := serviceFrom(ctx).Page(ctx, requestcontext.DeviceID(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "failed to load page", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleCaptcha(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, CaptchaResponse{Captcha: serviceFrom(r.Context()).Captcha()})
}

func (h *Handler) handleInput(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values, err := readValues(w, r)
	if err != nil {
		h.writeFailure(ctx, w, "invalid input request", err)
		return
	}
	progress := serviceFrom(ctx).Input(ctx, requestcontext.DeviceID(ctx), values)
	httputil.WriteJSON(w, http.StatusOK, progress)
}

func (h *Handler) handleValidateField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values, err := readValues(w, r)
	if err != nil {
		h.writeFailure(ctx, w, "invalid validate request", err)
		return
	}
	check, err := serviceFrom(ctx).ValidateField(ctx, chi.URLParam(r, "field"), values.Text("value"))
	if err != nil {
		h.writeFailure(ctx, w, "field validation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, check)
}

func (h *Handler) handleAge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values, err := readValues(w, r)
	if err != nil {
		h.writeFailure(ctx, w, "invalid age request", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, serviceFrom(ctx).Age(ctx, values.Text("dob")))
}

func (h *Handler) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values, err := readValues(w, r)
	if err != nil {
		h.writeFailure(ctx, w, "invalid draft request", err)
		return
	}
	notice, err := serviceFrom(ctx).SaveDraft(ctx, requestcontext.DeviceID(ctx), values)
	if err != nil {
		h.writeFailure(ctx, w, "failed to save draft", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, notice)
}

func (h *Handler) handleRestoreDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	restored, err := serviceFrom(ctx).RestoreDraft(ctx, requestcontext.DeviceID(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "failed to restore draft", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, restored)
}

func (h *Handler) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	notice, err := serviceFrom(ctx).DiscardDraft(ctx, requestcontext.DeviceID(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "failed to discard draft", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, notice)
}

func (h *Handler) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contentType, data, err := readPhoto(w, r)
	if err != nil {
		h.writeFailure(ctx, w, "invalid photo upload", err)
		return
	}
	notice, err := serviceFrom(ctx).UploadPhoto(ctx, requestcontext.DeviceID(ctx), contentType, data)
	if err != nil {
		h.writeFailure(ctx, w, "photo rejected", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, notice)
}

func (h *Handler) handleRemovePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serviceFrom(ctx).RemovePhoto(ctx, requestcontext.DeviceID(ctx))
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmit answers 201 with the record when accepted and 422 with every
// field error when rejected.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values, err := readValues(w, r)
	if err != nil {
		h.writeFailure(ctx, w, "invalid submit request", err)
		return
	}
	outcome, err := serviceFrom(ctx).Submit(ctx, requestcontext.DeviceID(ctx), values)
	if err != nil {
		h.writeFailure(ctx, w, "submission failed", err)
		return
	}
	if !outcome.Accepted() {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, outcome)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, outcome)
}
