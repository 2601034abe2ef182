package validation

import (
	"strings"
	"time"

	"regdesk/internal/registration/models"
	id "regdesk/pkg/domain"
)

// Set binds the validators to one scheme's age bounds.
type Set struct {
	minAge int
	maxAge int
}

// NewSet returns validators for the inclusive age bounds.
func NewSet(minAge, maxAge int) Set {
	return Set{minAge: minAge, maxAge: maxAge}
}

// Input is what a full validation pass looks at.
type Input struct {
	Data     models.FormData
	HasPhoto bool
	Now      time.Time
}

// Run validates every base field in checklist order, then appends the
// extension's errors. The result is empty when the form is acceptable.
func (s Set) Run(in Input, ext models.Extension) []models.FieldError {
	var errs []models.FieldError
	for _, key := range models.BaseFields {
		if msg := s.base(key, in); msg != "" {
			errs = append(errs, models.FieldError{Key: key, Message: msg})
		}
	}
	if ext != nil {
		for _, e := range ext.ValidateExtra(in.Data) {
			if e.Message != "" {
				errs = append(errs, e)
			}
		}
	}
	return errs
}

func (s Set) base(key string, in Input) string {
	d := in.Data
	switch key {
	case models.FieldFullName:
		return FullName(d.FullName)
	case models.FieldDOB:
		return DOB(d.DOB, s.minAge, s.maxAge, in.Now)
	case models.FieldGender:
		return Gender(d.Gender)
	case models.FieldMobile:
		return Mobile(d.Mobile)
	case models.FieldEmail:
		return Email(d.Email)
	case models.FieldDistrict:
		return District(d.District)
	case models.FieldPhoto:
		return Photo(in.HasPhoto)
	case models.FieldEmergencyName:
		return EmergencyName(d.EmergencyName)
	case models.FieldEmergencyPhone:
		return EmergencyPhone(d.EmergencyPhone)
	case models.FieldEmergencyRelation:
		return EmergencyRelation(d.EmergencyRelation)
	default:
		if kind := id.ConsentKind(key); kind.IsValid() {
			return Consent(kind, d.Consent(kind))
		}
		return ""
	}
}

// Field validates a single base field for blur and change events. Consents
// accept "true", "on" and "1" as ticked; photo accepts any non-empty value as
// present. known is false for fields this set does not validate.
func (s Set) Field(name, value string, now time.Time) (message string, known bool) {
	switch name {
	case models.FieldFullName, models.FieldDOB, models.FieldGender, models.FieldMobile,
		models.FieldEmail, models.FieldDistrict, models.FieldEmergencyName,
		models.FieldEmergencyPhone, models.FieldEmergencyRelation:
		var d models.FormData
		setText(&d, name, value)
		return s.base(name, Input{Data: d, Now: now}), true
	case models.FieldPhoto:
		return Photo(strings.TrimSpace(value) != ""), true
	}
	if kind := id.ConsentKind(name); kind.IsValid() {
		return Consent(kind, IsTruthy(value)), true
	}
	return "", false
}

// IsTruthy interprets a posted checkbox value.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1", "yes", "checked":
		return true
	}
	return false
}

func setText(d *models.FormData, name, value string) {
	switch name {
	case models.FieldFullName:
		d.FullName = value
	case models.FieldDOB:
		d.DOB = value
	case models.FieldGender:
		d.Gender = value
	case models.FieldMobile:
		d.Mobile = value
	case models.FieldEmail:
		d.Email = value
	case models.FieldDistrict:
		d.District = value
	case models.FieldEmergencyName:
		d.EmergencyName = value
	case models.FieldEmergencyPhone:
		d.EmergencyPhone = value
	case models.FieldEmergencyRelation:
		d.EmergencyRelation = value
	}
}

// MinAge returns the lower age bound.
func (s Set) MinAge() int { return s.minAge }

// MaxAge returns the upper age bound.
func (s Set) MaxAge() int { return s.maxAge }
