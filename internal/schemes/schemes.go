// Package schemes holds the built-in registration programs and applies
// deployment overrides to them.
package schemes

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"regdesk/internal/platform/config"
	"regdesk/internal/registration/models"
	id "regdesk/pkg/domain"
	pstrings "regdesk/pkg/platform/strings"
)

// Slugs of the built-in schemes.
const (
	SlugAdventureTraining  = "adventure-training"
	SlugVocationalTraining = "vocational-training"
	SlugYouthVolunteering  = "youth-volunteering"
	SlugKhelMahakumbh      = "khel-mahakumbh"
)

const (
	maxSelections          = 3
	fieldQualification     = "qualification"
	msgSelectQualification = "Please select your highest qualification."
)

// Builtin returns fresh copies of every built-in scheme in a stable order.
func Builtin() []models.Scheme {
	return []models.Scheme{
		AdventureTraining(),
		VocationalTraining(),
		YouthVolunteering(),
		KhelMahakumbh(),
	}
}

// Slugs lists the built-in scheme slugs.
func Slugs() []string {
	out := make([]string, 0, 4)
	for _, s := range Builtin() {
		out = append(out, s.Slug.String())
	}
	return out
}

// Lookup returns the built-in scheme with the given slug.
func Lookup(slug string) (models.Scheme, bool) {
	for _, s := range Builtin() {
		if s.Slug.String() == slug {
			return s, true
		}
	}
	return models.Scheme{}, false
}

// Load returns the enabled built-in schemes with overrides applied. Every
// scheme is validated; an override naming an unknown scheme is an error.
func Load(overrides map[string]config.SchemeOverride) ([]models.Scheme, error) {
	known := Slugs()
	for slug := range overrides {
		if !slices.Contains(known, slug) {
			return nil, fmt.Errorf("unknown scheme %q in overrides", slug)
		}
	}

	var out []models.Scheme
	for _, s := range Builtin() {
		o, ok := overrides[s.Slug.String()]
		if ok {
			if o.Disabled {
				continue
			}
			s = Apply(s, o)
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ageBound is implemented by extensions whose behaviour depends on the
// scheme's age range.
type ageBound interface {
	withAges(minAge, maxAge int) models.Extension
}

// Apply returns s with the non-zero override fields set.
func Apply(s models.Scheme, o config.SchemeOverride) models.Scheme {
	if o.Title != "" {
		s.Title = o.Title
	}
	if o.IDPrefix != "" {
		s.IDPrefix = o.IDPrefix
	}
	if o.MinAge != nil {
		s.MinAge = *o.MinAge
	}
	if o.MaxAge != nil {
		s.MaxAge = *o.MaxAge
	}
	if o.SuccessMessage != "" {
		s.SuccessMessage = o.SuccessMessage
	}
	if ab, ok := s.Extension.(ageBound); ok {
		s.Extension = ab.withAges(s.MinAge, s.MaxAge)
	}
	return s
}

func newScheme(slug, title, keyPrefix, idPrefix string, minAge, maxAge int, ext models.Extension) models.Scheme {
	s := models.Scheme{
		Slug:       id.SchemeSlug(slug),
		Title:      title,
		StorageKey: keyPrefix + "_registrations",
		DraftKey:   keyPrefix + "_form_draft",
		CounterKey: keyPrefix + "_id_counter",
		IDPrefix:   idPrefix,
		MinAge:     minAge,
		MaxAge:     maxAge,
		Extension:  ext,
	}
	extra := models.Locators{}
	for _, f := range ext.ExtraFields() {
		if k := f.ErrorKeyOrKey(); k != "" {
			extra[k] = models.FieldLocator(k)
		}
	}
	s.Locators = models.DefaultLocators().With(extra)
	return s
}

// requirement is a field that must carry a value, with the message shown
// when it does not.
type requirement struct {
	key     string
	message string
}

// declared implements the collection, restore, progress and required-value
// parts of an extension from field declarations. Schemes embed it and add
// their own rows and columns.
type declared struct {
	fields   []models.FieldSpec
	required []requirement
	progress []string
}

func (d declared) ExtraFields() []models.FieldSpec {
	return slices.Clone(d.fields)
}

func (d declared) CollectExtra(v models.FormValues) models.Extra {
	return models.CollectFields(d.fields, v)
}

func (d declared) RestoreExtra(data models.FormData) map[string][]string {
	return models.RestoreFields(d.fields, data)
}

func (d declared) ExtraProgress(data models.FormData) int {
	n := 0
	for _, key := range d.progress {
		if filled(data.Extra, key) {
			n++
		}
	}
	return n
}

func (d declared) ExtraProgressMax() int {
	return len(d.progress)
}

func (d declared) ValidateExtra(data models.FormData) []models.FieldError {
	var errs []models.FieldError
	for _, r := range d.required {
		if !filled(data.Extra, r.key) {
			errs = append(errs, models.FieldError{Key: d.errorKey(r.key), Message: r.message})
		}
	}
	return errs
}

func (d declared) BuildRecord(data models.FormData, base models.Record) models.Record {
	models.CopyFields(d.fields, data, &base)
	return base
}

func (d declared) errorKey(key string) string {
	for _, f := range d.fields {
		if f.Key == key && f.ErrorKey != "" {
			return f.ErrorKey
		}
	}
	return key
}

func filled(e models.Extra, key string) bool {
	if l, ok := e.Lists[key]; ok {
		return len(l) > 0
	}
	return e.Value(key) != ""
}

func choice(key string) models.FieldSpec {
	return models.FieldSpec{Key: key, Kind: models.KindChoice}
}

func required(key string) models.FieldSpec {
	return models.FieldSpec{Key: key, Kind: models.KindChoice, Validated: true}
}

func text(key string) models.FieldSpec {
	return models.FieldSpec{Key: key, Kind: models.KindText}
}

// Shared cell and row renderers.

func yearsShort(r models.Record) string {
	return r.AgeText() + " yr"
}

func mobile(r models.Record) string {
	return "+91 " + r.Mobile
}

func email(r models.Record) string {
	return pstrings.Or(r.Email, "Not provided")
}

func humanized(key string) func(models.Record) string {
	return func(r models.Record) string {
		return pstrings.Humanize(r.Extra.Value(key))
	}
}

func pipeJoined(key string) func(models.Record) string {
	return func(r models.Record) string {
		return strings.Join(r.Extra.List(key), "|")
	}
}

func ageYears(r models.Record) string {
	return r.AgeText() + " years"
}

func registeredAt(r models.Record, loc *time.Location) string {
	return models.DisplayTime(r.RegisteredAt, loc)
}

func baseColumns() []models.Column {
	return []models.Column{
		{Key: models.FieldFullName, Label: "Name"},
		{Key: "age", Label: "Age", Render: yearsShort},
		{Key: models.FieldDistrict, Label: "District"},
	}
}
