package service

import (
	"context"

	"regdesk/internal/registration/draft"
	"regdesk/internal/registration/eligibility"
	"regdesk/internal/registration/form"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/photo"
	id "regdesk/pkg/domain"
	dErrors "regdesk/pkg/domain-errors"
	"regdesk/pkg/platform/middleware/device"
	"regdesk/pkg/requestcontext"
)

// Draft save triggers, used as metric labels.
const (
	TriggerDebounce = "debounce"
	TriggerManual   = "manual"
)

// SchemeInfo is the public part of a scheme's configuration.
type SchemeInfo struct {
	Slug           id.SchemeSlug `json:"slug"`
	Title          string        `json:"title"`
	IDPrefix       string        `json:"idPrefix"`
	MinAge         int           `json:"minAge"`
	MaxAge         int           `json:"maxAge"`
	SuccessMessage string        `json:"successMessage,omitempty"`
}

// Info describes the scheme.
func (e *Engine) Info() SchemeInfo {
	return SchemeInfo{
		Slug:           e.scheme.Slug,
		Title:          e.scheme.Title,
		IDPrefix:       e.scheme.IDPrefix,
		MinAge:         e.scheme.MinAge,
		MaxAge:         e.scheme.MaxAge,
		SuccessMessage: e.scheme.SuccessMessage,
	}
}

// Page is what a device sees when it opens the form.
type Page struct {
	Scheme       SchemeInfo      `json:"scheme"`
	DraftOffered bool            `json:"draftOffered"`
	HasPhoto     bool            `json:"hasPhoto"`
	Progress     int             `json:"progress"`
	State        State           `json:"state"`
	Captcha      string          `json:"captcha"`
	Locators     models.Locators `json:"locators"`
	MaxDOB       string          `json:"maxDob"`
}

// Page loads the form state for a device. A draft is offered for restore,
// not applied, so progress starts from the cached photo alone.
func (e *Engine) Page(ctx context.Context, dev id.DeviceID) (Page, error) {
	_, offered, err := e.drafts.Load(ctx, dev)
	if err != nil {
		return Page{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load draft")
	}
	hasPhoto := e.photos.Has(e.scheme.Slug, dev)
	now := e.localNow(ctx)
	return Page{
		Scheme:       e.Info(),
		DraftOffered: offered,
		HasPhoto:     hasPhoto,
		Progress:     form.Progress(models.FormData{}, hasPhoto, e.scheme.MinAge, e.scheme.MaxAge, e.scheme.Extension, now),
		State:        e.State(dev),
		Captcha:      e.Captcha(),
		Locators:     e.scheme.Locators,
		MaxDOB:       now.Format("2006-01-02"),
	}, nil
}

// Progress is the response to an input event.
type Progress struct {
	Progress int `json:"progress"`
}

// Input recomputes progress and schedules a debounced draft save.
func (e *Engine) Input(ctx context.Context, dev id.DeviceID, values models.FormValues) Progress {
	data := form.Collect(values, e.scheme.Extension)
	e.debouncer.Schedule(dev, data)
	return Progress{Progress: e.progress(ctx, dev, data)}
}

func (e *Engine) progress(ctx context.Context, dev id.DeviceID, data models.FormData) int {
	return form.Progress(data, e.photos.Has(e.scheme.Slug, dev),
		e.scheme.MinAge, e.scheme.MaxAge, e.scheme.Extension, e.localNow(ctx))
}

func (e *Engine) saveDebounced(ctx context.Context, dev id.DeviceID, data models.FormData) error {
	return e.saveDraft(ctx, dev, data, TriggerDebounce)
}

func (e *Engine) saveDraft(ctx context.Context, dev id.DeviceID, data models.FormData, trigger string) error {
	if err := e.drafts.Save(ctx, dev, data); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.IncrementDraftSaved(e.slug(), trigger)
	}
	e.logger.DebugContext(ctx, "draft saved",
		"scheme", e.slug(),
		"trigger", trigger,
		"device", device.DisplayName(requestcontext.UserAgent(ctx)),
	)
	return nil
}

// Notice is a short confirmation for the client to show.
type Notice struct {
	Message  string `json:"message"`
	Progress *int   `json:"progress,omitempty"`
}

// SaveDraft writes the draft now, replacing any pending debounced save.
func (e *Engine) SaveDraft(ctx context.Context, dev id.DeviceID, values models.FormValues) (Notice, error) {
	data := form.Collect(values, e.scheme.Extension)
	e.debouncer.Cancel(dev)
	if err := e.saveDraft(ctx, dev, data, TriggerManual); err != nil {
		return Notice{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return Notice{Message: draft.MsgSaved}, nil
}

// Restored re-populates the form from a draft.
type Restored struct {
	Values   map[string][]string `json:"values"`
	Progress int                 `json:"progress"`
	Message  string              `json:"message"`
}

// RestoreDraft returns the control values of the offered draft.
func (e *Engine) RestoreDraft(ctx context.Context, dev id.DeviceID) (Restored, error) {
	data, ok, err := e.drafts.Load(ctx, dev)
	if err != nil {
		return Restored{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load draft")
	}
	if !ok {
		return Restored{}, dErrors.New(dErrors.CodeNotFound, "no draft to restore")
	}
	return Restored{
		Values:   form.Restore(data, e.scheme.Extension),
		Progress: e.progress(ctx, dev, data),
		Message:  draft.MsgRestored,
	}, nil
}

// DiscardDraft deletes the draft and the cached photo.
func (e *Engine) DiscardDraft(ctx context.Context, dev id.DeviceID) (Notice, error) {
	e.debouncer.Cancel(dev)
	if err := e.drafts.Discard(ctx, dev); err != nil {
		return Notice{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to discard draft")
	}
	return Notice{Message: draft.MsgDiscarded}, nil
}

// UploadPhoto validates and caches a photo for the device's next submit.
// A rejected upload leaves any earlier photo in place.
func (e *Engine) UploadPhoto(ctx context.Context, dev id.DeviceID, contentType string, data []byte) (Notice, error) {
	uri, err := photo.Accept(contentType, data)
	if err != nil {
		if e.metrics != nil {
			e.metrics.IncrementPhotoRejected(e.slug(), photo.Reason(err))
		}
		return Notice{}, err
	}
	e.photos.Put(e.scheme.Slug, dev, uri)
	return Notice{Message: photo.MsgUploaded}, nil
}

// RemovePhoto drops the cached photo.
func (e *Engine) RemovePhoto(_ context.Context, dev id.DeviceID) {
	e.photos.Remove(e.scheme.Slug, dev)
}

// FieldCheck is the result of validating one field on blur or change.
type FieldCheck struct {
	Field   string         `json:"field"`
	Message string         `json:"message"`
	Valid   bool           `json:"valid"`
	Locator models.Locator `json:"locator"`
}

// ValidateField checks one base field.
func (e *Engine) ValidateField(ctx context.Context, field, value string) (FieldCheck, error) {
	msg, known := e.validator.Field(field, value, e.localNow(ctx))
	if !known {
		return FieldCheck{}, dErrors.New(dErrors.CodeBadRequest, "unknown field: "+field)
	}
	loc, _ := e.scheme.Locators.Lookup(field)
	return FieldCheck{Field: field, Message: msg, Valid: msg == "", Locator: loc}, nil
}

// AgeBadge is the live age display next to the date of birth.
type AgeBadge struct {
	Age      *int   `json:"age"`
	Label    string `json:"label"`
	Category string `json:"category"`
	Badge    string `json:"badge"`
}

// Age derives the age and category for a date of birth.
func (e *Engine) Age(ctx context.Context, dob string) AgeBadge {
	r := eligibility.Compute(dob, e.scheme.MinAge, e.scheme.MaxAge, e.localNow(ctx))
	return AgeBadge{
		Age:      r.Age,
		Label:    r.AgeLabel(),
		Category: r.Category.String(),
		Badge:    eligibility.Badge(r.Category),
	}
}
