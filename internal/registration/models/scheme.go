package models

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode"

	id "regdesk/pkg/domain"
)

// BaseFields is the fixed order in which base fields are validated. The first
// failing field in this order receives focus.
var BaseFields = []string{
	FieldFullName,
	FieldDOB,
	FieldGender,
	FieldMobile,
	FieldEmail,
	FieldDistrict,
	FieldPhoto,
	FieldEmergencyName,
	FieldEmergencyPhone,
	FieldEmergencyRelation,
	FieldConsentAccuracy,
	FieldConsentMedical,
	FieldConsentRules,
	FieldConsentData,
}

// Scheme configures one registration program. It is built once at startup,
// checked with Validate and never mutated afterwards.
type Scheme struct {
	Slug           id.SchemeSlug
	Title          string
	StorageKey     string
	DraftKey       string
	CounterKey     string
	IDPrefix       string
	MinAge         int
	MaxAge         int
	SuccessMessage string
	Extension      Extension
	Locators       Locators
}

// Validate checks the configuration before an engine is built from it.
func (s Scheme) Validate() error {
	var errs []error
	if _, err := id.ParseSchemeSlug(s.Slug.String()); err != nil {
		errs = append(errs, err)
	}
	if s.StorageKey == "" || s.DraftKey == "" || s.CounterKey == "" {
		errs = append(errs, errors.New("storage, draft and counter keys are required"))
	} else if s.StorageKey == s.DraftKey || s.StorageKey == s.CounterKey || s.DraftKey == s.CounterKey {
		errs = append(errs, errors.New("storage, draft and counter keys must differ"))
	}
	if _, prefix, _, err := id.ParseRegistrationID(id.FormatRegistrationID(s.IDPrefix, 1).String()); err != nil || prefix != s.IDPrefix {
		errs = append(errs, fmt.Errorf("id prefix %q cannot form registration ids", s.IDPrefix))
	}
	if s.MinAge < 0 || s.MinAge > s.MaxAge {
		errs = append(errs, fmt.Errorf("invalid age bounds [%d, %d]", s.MinAge, s.MaxAge))
	}
	if s.Extension == nil {
		errs = append(errs, errors.New("extension is required; use NopExtension for none"))
	} else {
		for _, col := range s.Extension.AdminColumns() {
			if col.Label == "" {
				errs = append(errs, fmt.Errorf("admin column %q has no label", col.Key))
			}
		}
		if s.Extension.ExtraProgressMax() < 0 {
			errs = append(errs, errors.New("extra progress max must not be negative"))
		}
	}
	if err := s.Locators.Check(s.RequiredLocatorKeys()); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("scheme %s: %w", s.Slug, errors.Join(errs...))
	}
	return nil
}

// RequiredLocatorKeys lists every field that can carry an error: the base
// fields and each extension field's error key.
func (s Scheme) RequiredLocatorKeys() []string {
	keys := append([]string(nil), BaseFields...)
	if s.Extension != nil {
		for _, f := range s.Extension.ExtraFields() {
			if k := f.ErrorKeyOrKey(); k != "" {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Locator names the input control and the error element of one field.
type Locator struct {
	Input string `json:"input"`
	Error string `json:"error"`
}

// Locators maps field names to their locators.
type Locators map[string]Locator

// DefaultLocators returns the locators of the base fields.
func DefaultLocators() Locators {
	return Locators{
		FieldFullName:          {Input: "regFullName", Error: "regFullName-err"},
		FieldDOB:               {Input: "regDob", Error: "regDob-err"},
		FieldGender:            {Input: "regGender", Error: "regGender-err"},
		FieldMobile:            {Input: "regMobile", Error: "regMobile-err"},
		FieldEmail:             {Input: "regEmail", Error: "regEmail-err"},
		FieldDistrict:          {Input: "regDistrict", Error: "regDistrict-err"},
		FieldPhoto:             {Input: "regPhotoInput", Error: "regPhoto-err"},
		FieldEmergencyName:     {Input: "regEmergName", Error: "regEmergName-err"},
		FieldEmergencyPhone:    {Input: "regEmergPhone", Error: "regEmergPhone-err"},
		FieldEmergencyRelation: {Input: "regEmergRelation", Error: "regEmergRelation-err"},
		FieldConsentAccuracy:   {Input: "regConsentAccuracy", Error: "regConsentAccuracy-err"},
		FieldConsentMedical:    {Input: "regConsentMedical", Error: "regConsentMedical-err"},
		FieldConsentRules:      {Input: "regConsentRules", Error: "regConsentRules-err"},
		FieldConsentData:       {Input: "regConsentData", Error: "regConsentData-err"},
	}
}

// FieldLocator builds the conventional locator for an extension field:
// "courseType" becomes {regCourseType, regCourseType-err}.
func FieldLocator(key string) Locator {
	if key == "" {
		return Locator{}
	}
	r := []rune(key)
	r[0] = unicode.ToUpper(r[0])
	base := "reg" + string(r)
	return Locator{Input: base, Error: base + "-err"}
}

// With returns a copy with the given locators added.
func (l Locators) With(extra Locators) Locators {
	out := maps.Clone(l)
	if out == nil {
		out = Locators{}
	}
	maps.Copy(out, extra)
	return out
}

// Lookup returns the locator for key.
func (l Locators) Lookup(key string) (Locator, bool) {
	loc, ok := l[key]
	return loc, ok
}

// Check verifies every required key is mapped and no two fields share an
// input or error locator.
func (l Locators) Check(required []string) error {
	var errs []error
	for _, k := range required {
		loc, ok := l[k]
		if !ok {
			errs = append(errs, fmt.Errorf("field %q has no locator", k))
			continue
		}
		if strings.TrimSpace(loc.Input) == "" || strings.TrimSpace(loc.Error) == "" {
			errs = append(errs, fmt.Errorf("field %q has an empty locator", k))
		}
	}

	seen := make(map[string]string, len(l)*2)
	for _, k := range sortedKeys(l) {
		loc := l[k]
		for _, ref := range []string{loc.Input, loc.Error} {
			if ref == "" {
				continue
			}
			if other, dup := seen[ref]; dup {
				errs = append(errs, fmt.Errorf("locator %q used by %q and %q", ref, other, k))
				continue
			}
			seen[ref] = k
		}
	}
	return errors.Join(errs...)
}

func sortedKeys(l Locators) []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// FieldError is one failed validation.
type FieldError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// SuccessRow is one label/value line of the success view and receipt.
type SuccessRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Column describes one admin table column. Render and CSV are optional;
// without them the raw field named by Key is used.
type Column struct {
	Key    string
	Label  string
	Render func(Record) string
	CSV    func(Record) string
}

// Display returns the table cell text.
func (c Column) Display(r Record) string {
	if c.Render != nil {
		return c.Render(r)
	}
	return r.Field(c.Key)
}

// Export returns the CSV cell text.
func (c Column) Export(r Record) string {
	if c.CSV != nil {
		return c.CSV(r)
	}
	return r.Field(c.Key)
}

// DisplayTime renders a timestamp for people in loc, as the success view and
// admin table show it.
func DisplayTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("02/01/2006, 15:04:05")
}
