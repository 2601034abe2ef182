package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"regdesk/internal/platform/metrics"
	"regdesk/internal/registration/eligibility"
	"regdesk/internal/registration/events"
	"regdesk/internal/registration/form"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/validation"
	id "regdesk/pkg/domain"
	dErrors "regdesk/pkg/domain-errors"
	"regdesk/pkg/platform/sentinel"
	"regdesk/pkg/requestcontext"
)

// MsgBusy is returned when a device submits while its previous submission
// is still running.
const MsgBusy = "submission already in progress"

// Outcome is the terminal result of one submission.
type Outcome struct {
	State State `json:"state"`

	// Rejected
	Errors       []models.FieldError `json:"errors,omitempty"`
	FirstField   string              `json:"firstField,omitempty"`
	Focus        *models.Locator     `json:"focus,omitempty"`
	Announcement string              `json:"announcement"`

	// Accepted
	Record         *models.Record      `json:"record,omitempty"`
	SuccessRows    []models.SuccessRow `json:"successRows,omitempty"`
	SuccessMessage string              `json:"successMessage,omitempty"`
}

// Accepted reports whether a record was stored.
func (o Outcome) Accepted() bool { return o.State == StateAccepted }

// RejectedAnnouncement is the screen-reader text for a rejected form.
func RejectedAnnouncement(n int) string {
	return "Form has " + strconv.Itoa(n) + " error(s). Please review."
}

// AcceptedAnnouncement is the screen-reader text for a stored record.
func AcceptedAnnouncement(regID id.RegistrationID) string {
	return "Registration successful! ID: " + regID.String()
}

// Submit runs the pipeline for one device: wait the submission delay,
// validate, and either reject with every error or store a new record.
// Field errors are an Outcome, not an error; errors are reserved for a busy
// device, a cancelled wait and storage failures.
func (e *Engine) Submit(ctx context.Context, device id.DeviceID, values models.FormValues) (Outcome, error) {
	ctx, span := e.tracer.Start(ctx, "registration.submit")
	defer span.End()
	span.SetAttributes(attribute.String("scheme", e.slug()))

	start := time.Now()
	requestID := requestcontext.RequestID(ctx)

	if !e.begin(device) {
		e.observe(metrics.OutcomeBusy, start)
		span.SetAttributes(attribute.String("outcome", metrics.OutcomeBusy))
		return Outcome{}, dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, MsgBusy)
	}

	final := StateEditing
	defer func() { e.finish(device, final) }()

	if err := e.sleep(ctx, e.submitDelay); err != nil {
		e.observe(metrics.OutcomeError, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission wait interrupted")
		if errors.Is(err, context.DeadlineExceeded) {
			return Outcome{}, dErrors.Wrap(err, dErrors.CodeTimeout, "submission timed out")
		}
		return Outcome{}, dErrors.Wrap(err, dErrors.CodeInternal, "submission interrupted")
	}

	now := e.localNow(ctx)
	data := form.Collect(values, e.scheme.Extension)
	photoData, hasPhoto := e.photos.Get(e.scheme.Slug, device)

	fieldErrs := e.validator.Run(validation.Input{Data: data, HasPhoto: hasPhoto, Now: now}, e.scheme.Extension)
	if len(fieldErrs) > 0 {
		final = StateRejected
		e.observe(metrics.OutcomeRejected, start)
		span.SetAttributes(
			attribute.String("outcome", metrics.OutcomeRejected),
			attribute.Int("errors", len(fieldErrs)),
		)
		e.logger.InfoContext(ctx, "registration rejected",
			"scheme", e.slug(),
			"errors", len(fieldErrs),
			"first_field", fieldErrs[0].Key,
			"request_id", requestID,
		)
		return e.rejection(fieldErrs), nil
	}

	record, err := e.accept(ctx, data, photoData, now)
	if err != nil {
		e.observe(metrics.OutcomeError, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to store registration")
		e.logger.ErrorContext(ctx, "failed to store registration",
			"scheme", e.slug(),
			"error", err,
			"request_id", requestID,
		)
		if errors.Is(err, sentinel.ErrConflict) {
			return Outcome{}, dErrors.Wrap(err, dErrors.CodeConflict, "registration store is busy, try again")
		}
		return Outcome{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
	}

	e.debouncer.Cancel(device)
	if err := e.drafts.Discard(ctx, device); err != nil {
		e.logger.WarnContext(ctx, "failed to clear draft after submit",
			"scheme", e.slug(),
			"error", err,
			"request_id", requestID,
		)
	}

	final = StateAccepted
	e.observe(metrics.OutcomeAccepted, start)
	span.SetAttributes(
		attribute.String("outcome", metrics.OutcomeAccepted),
		attribute.String("registration_id", record.RegistrationID.String()),
	)
	e.logger.InfoContext(ctx, "registration accepted",
		"scheme", e.slug(),
		"registration_id", record.RegistrationID.String(),
		"request_id", requestID,
	)
	e.publisher.Publish(ctx, events.Event{
		Type:           events.TypeAccepted,
		Scheme:         e.slug(),
		RegistrationID: record.RegistrationID.String(),
		At:             record.RegisteredAt,
	})

	return Outcome{
		State:          StateAccepted,
		Announcement:   AcceptedAnnouncement(record.RegistrationID),
		Record:         &record,
		SuccessRows:    e.scheme.Extension.BuildSuccessRows(record, e.location),
		SuccessMessage: e.scheme.SuccessMessage,
	}, nil
}

func (e *Engine) rejection(fieldErrs []models.FieldError) Outcome {
	out := Outcome{
		State:        StateRejected,
		Errors:       fieldErrs,
		FirstField:   fieldErrs[0].Key,
		Announcement: RejectedAnnouncement(len(fieldErrs)),
	}
	if loc, ok := e.scheme.Locators.Lookup(out.FirstField); ok {
		out.Focus = &loc
	}
	return out
}

// accept numbers and stores the record. The counter increment and the append
// run under one lock so concurrent submissions get distinct, ordered IDs.
func (e *Engine) accept(ctx context.Context, data models.FormData, photoData string, now time.Time) (models.Record, error) {
	e.seqMu.Lock()
	defer e.seqMu.Unlock()

	seq, err := e.records.NextSequence(ctx)
	if err != nil {
		return models.Record{}, err
	}

	record := e.buildRecord(data, photoData, now)
	record.RegistrationID = id.FormatRegistrationID(e.scheme.IDPrefix, seq)

	if err := e.records.Append(ctx, record); err != nil {
		return models.Record{}, err
	}
	return record, nil
}

// buildRecord assembles the base record and lets the scheme add its fields.
func (e *Engine) buildRecord(data models.FormData, photoData string, now time.Time) models.Record {
	age := eligibility.Compute(data.DOB, e.scheme.MinAge, e.scheme.MaxAge, now)
	base := models.Record{
		FullName:          strings.TrimSpace(data.FullName),
		DOB:               data.DOB,
		Age:               age.Age,
		Gender:            data.Gender,
		Mobile:            strings.TrimSpace(data.Mobile),
		Email:             strings.TrimSpace(data.Email),
		District:          data.District,
		EmergencyName:     strings.TrimSpace(data.EmergencyName),
		EmergencyPhone:    strings.TrimSpace(data.EmergencyPhone),
		EmergencyRelation: data.EmergencyRelation,
		MedicalConditions: strings.TrimSpace(data.MedicalConditions),
		ConsentAccuracy:   data.ConsentAccuracy,
		ConsentMedical:    data.ConsentMedical,
		ConsentRules:      data.ConsentRules,
		ConsentData:       data.ConsentData,
		PhotoData:         photoData,
		RegisteredAt:      now.UTC().Truncate(time.Millisecond),
		Status:            models.StatusPending,
	}
	record := e.scheme.Extension.BuildRecord(data, base)
	// the engine owns identity and lifecycle fields
	record.RegisteredAt = base.RegisteredAt
	record.Status = base.Status
	return record
}

func (e *Engine) observe(outcome string, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.IncrementSubmission(e.slug(), outcome)
	e.metrics.ObserveSubmit(e.slug(), time.Since(start))
}
