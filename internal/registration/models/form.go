package models

import (
	"encoding/json"

	id "regdesk/pkg/domain"
)

// Base form field names. They double as JSON keys and form control names.
const (
	FieldFullName          = "fullName"
	FieldDOB               = "dob"
	FieldGender            = "gender"
	FieldMobile            = "mobile"
	FieldEmail             = "email"
	FieldDistrict          = "district"
	FieldPhoto             = "photo"
	FieldEmergencyName     = "emergencyName"
	FieldEmergencyPhone    = "emergencyPhone"
	FieldEmergencyRelation = "emergencyRelation"
	FieldMedicalConditions = "medicalConditions"
	FieldConsentAccuracy   = string(id.ConsentAccuracy)
	FieldConsentMedical    = string(id.ConsentMedical)
	FieldConsentRules      = string(id.ConsentRules)
	FieldConsentData       = string(id.ConsentData)
)

// FormValues is the read-only view of a submitted form that collectors use.
// form.Values implements it.
type FormValues interface {
	// Text returns a text input's value ("" when absent).
	Text(name string) string
	// Choice returns a select's value or a radio group's checked value.
	Choice(name string) string
	// Selected returns the checked values of a checkbox group in posted order.
	Selected(name string) []string
	// Checked reports whether a checkbox is ticked.
	Checked(name string) bool
}

// FormData is a snapshot of the form: base fields plus scheme extras. Drafts
// persist it as is; it is never validated on save.
type FormData struct {
	FullName          string `json:"fullName"`
	DOB               string `json:"dob"`
	Gender            string `json:"gender"`
	Mobile            string `json:"mobile"`
	Email             string `json:"email"`
	District          string `json:"district"`
	EmergencyName     string `json:"emergencyName"`
	EmergencyPhone    string `json:"emergencyPhone"`
	EmergencyRelation string `json:"emergencyRelation"`
	MedicalConditions string `json:"medicalConditions"`
	ConsentAccuracy   bool   `json:"consentAccuracy"`
	ConsentMedical    bool   `json:"consentMedical"`
	ConsentRules      bool   `json:"consentRules"`
	ConsentData       bool   `json:"consentData"`

	Extra Extra `json:"-"`
}

// AllConsents reports whether every consent box is ticked.
func (d FormData) AllConsents() bool {
	return d.ConsentAccuracy && d.ConsentMedical && d.ConsentRules && d.ConsentData
}

// Consent returns the flag for one consent kind.
func (d FormData) Consent(kind id.ConsentKind) bool {
	switch kind {
	case id.ConsentAccuracy:
		return d.ConsentAccuracy
	case id.ConsentMedical:
		return d.ConsentMedical
	case id.ConsentRules:
		return d.ConsentRules
	case id.ConsentData:
		return d.ConsentData
	default:
		return false
	}
}

type formDataAlias FormData

var formDataKeys = jsonKeys(formDataAlias{})

// MarshalJSON flattens Extra into the same object as the base fields.
func (d FormData) MarshalJSON() ([]byte, error) {
	return marshalFlat(formDataAlias(d), d.Extra, formDataKeys)
}

// UnmarshalJSON splits unknown keys into Extra.
func (d *FormData) UnmarshalJSON(data []byte) error {
	var alias formDataAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	extra, err := unmarshalExtra(data, formDataKeys)
	if err != nil {
		return err
	}
	*d = FormData(alias)
	d.Extra = extra
	return nil
}
