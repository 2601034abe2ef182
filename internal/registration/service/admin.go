package service

import (
	"context"
	"errors"
	"strconv"

	"regdesk/internal/registration/admin"
	"regdesk/internal/registration/events"
	"regdesk/internal/registration/models"
	id "regdesk/pkg/domain"
	dErrors "regdesk/pkg/domain-errors"
	"regdesk/pkg/platform/sentinel"
	"regdesk/pkg/requestcontext"
)

// Admin builds the registrations table.
func (e *Engine) Admin(ctx context.Context) (admin.Table, error) {
	records, err := e.Records(ctx)
	if err != nil {
		return admin.Table{}, err
	}
	return admin.BuildTable(records, e.scheme.Extension.AdminColumns(), e.localNow(ctx), e.location), nil
}

// Records lists every stored record.
func (e *Engine) Records(ctx context.Context) ([]models.Record, error) {
	records, err := e.records.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return records, nil
}

// Export is a rendered download. Empty exports carry only a notice.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
	Count       int
	Message     string
}

// Empty reports whether there was nothing to export.
func (x Export) Empty() bool { return x.Count == 0 }

// Export renders the records as CSV or XLSX.
func (e *Engine) Export(ctx context.Context, format string) (Export, error) {
	records, err := e.Records(ctx)
	if err != nil {
		return Export{}, err
	}
	if len(records) == 0 {
		return Export{Message: admin.MsgNothingExport}, nil
	}

	columns := e.scheme.Extension.AdminColumns()
	out := Export{
		Filename: admin.Filename(e.scheme.IDPrefix, e.localNow(ctx), format),
		Count:    len(records),
		Message:  admin.ExportedMessage(len(records)),
	}
	switch format {
	case admin.FormatCSV:
		out.ContentType = "text/csv; charset=utf-8"
		out.Body = []byte(admin.CSV(records, columns))
	case admin.FormatXLSX:
		body, err := admin.XLSX(records, columns)
		if err != nil {
			return Export{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render workbook")
		}
		out.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		out.Body = body
	default:
		return Export{}, dErrors.New(dErrors.CodeBadRequest, "unsupported export format: "+format)
	}

	if e.metrics != nil {
		e.metrics.IncrementExport(e.slug(), format)
	}
	return out, nil
}

// DeletedMessage is the notice after a record is deleted.
func DeletedMessage(regID id.RegistrationID) string {
	return regID.String() + " deleted."
}

// Deleted reports a delete request.
type Deleted struct {
	Removed bool   `json:"removed"`
	Message string `json:"message"`
}

// Delete removes a record after confirmation. Unknown IDs are a no-op.
func (e *Engine) Delete(ctx context.Context, regID id.RegistrationID, confirmed bool) (Deleted, error) {
	if !confirmed {
		return Deleted{}, dErrors.New(dErrors.CodeConfirmationRequired, "Delete "+regID.String()+"?")
	}
	removed, err := e.records.Delete(ctx, regID)
	if err != nil {
		return Deleted{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete registration")
	}
	if removed {
		if e.metrics != nil {
			e.metrics.AddRecordsDeleted(e.slug(), 1)
		}
		e.publisher.Publish(ctx, events.Event{
			Type:           events.TypeDeleted,
			Scheme:         e.slug(),
			RegistrationID: regID.String(),
		})
		e.logger.InfoContext(ctx, "registration deleted",
			"scheme", e.slug(),
			"registration_id", regID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return Deleted{Removed: removed, Message: DeletedMessage(regID)}, nil
}

// Cleared reports a clear-all request.
type Cleared struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// ClearPrompt is the confirmation question for clearing n records.
func ClearPrompt(n int) string {
	return "Permanently delete all " + strconv.Itoa(n) + " record(s)?"
}

// Clear removes every record and resets numbering. With no records it only
// returns a notice; otherwise it needs confirmation.
func (e *Engine) Clear(ctx context.Context, confirmed bool) (Cleared, error) {
	records, err := e.Records(ctx)
	if err != nil {
		return Cleared{}, err
	}
	if len(records) == 0 {
		return Cleared{Message: admin.MsgNothingClear}, nil
	}
	if !confirmed {
		return Cleared{}, dErrors.New(dErrors.CodeConfirmationRequired, ClearPrompt(len(records)))
	}

	e.seqMu.Lock()
	n, err := e.records.Clear(ctx)
	e.seqMu.Unlock()
	if err != nil {
		return Cleared{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear registrations")
	}

	if e.metrics != nil {
		e.metrics.AddRecordsDeleted(e.slug(), n)
	}
	e.publisher.Publish(ctx, events.Event{Type: events.TypeCleared, Scheme: e.slug(), Count: n})
	e.logger.WarnContext(ctx, "registrations cleared",
		"scheme", e.slug(),
		"count", n,
		"request_id", requestcontext.RequestID(ctx),
	)
	return Cleared{Count: n, Message: admin.MsgCleared}, nil
}

// Receipt is the printable view of one record.
type Receipt struct {
	Scheme SchemeInfo          `json:"scheme"`
	Record models.Record       `json:"record"`
	Rows   []models.SuccessRow `json:"rows"`
}

// Receipt looks a record up and renders its success rows.
func (e *Engine) Receipt(ctx context.Context, regID id.RegistrationID) (Receipt, error) {
	record, err := e.records.Get(ctx, regID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Receipt{}, dErrors.Wrap(err, dErrors.CodeNotFound, "registration not found")
	}
	if err != nil {
		return Receipt{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return Receipt{
		Scheme: e.Info(),
		Record: record,
		Rows:   models.ReceiptRows(e.scheme.Extension, record, e.location),
	}, nil
}
