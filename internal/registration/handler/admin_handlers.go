package handler

import (
	"mime"
	"net/http"
	"strconv"

	"regdesk/internal/registration/admin"
	"regdesk/pkg/platform/httputil"
)

func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table, err := serviceFrom(ctx).Admin(ctx)
	if err != nil {
		h.writeFailure(ctx, w, "failed to load registrations", err)
		return
	}
	if !wantsHTML(r) {
		httputil.WriteJSON(w, http.StatusOK, table)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := admin.RenderHTML(w, table); err != nil {
		h.logger.ErrorContext(ctx, "failed to render admin table", "error", err)
	}
}

func (h *Handler) handleExport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		export, err := serviceFrom(ctx).Export(ctx, format)
		if err != nil {
			h.writeFailure(ctx, w, "export failed", err)
			return
		}
		if export.Empty() {
			httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: export.Message})
			return
		}
		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
		w.Header().Set("Content-Length", strconv.Itoa(len(export.Body)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(export.Body)
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regID, err := registrationIDParam(r)
	if err != nil {
		h.writeFailure(ctx, w, "invalid registration id", err)
		return
	}
	deleted, err := serviceFrom(ctx).Delete(ctx, regID, confirmed(r))
	if err != nil {
		h.writeFailure(ctx, w, "delete failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deleted)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cleared, err := serviceFrom(ctx).Clear(ctx, confirmed(r))
	if err != nil {
		h.writeFailure(ctx, w, "clear failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cleared)
}

func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regID, err := registrationIDParam(r)
	if err != nil {
		h.writeFailure(ctx, w, "invalid registration id", err)
		return
	}
	receipt, err := serviceFrom(ctx).Receipt(ctx, regID)
	if err != nil {
		h.writeFailure(ctx, w, "receipt lookup failed", err)
		return
	}
	if !wantsHTML(r) {
		httputil.WriteJSON(w, http.StatusOK, receipt)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := admin.RenderReceipt(w, receipt.Scheme.Title, receipt.Rows, receipt.Record.PhotoData); err != nil {
		h.logger.ErrorContext(ctx, "failed to render receipt", "error", err)
	}
}
