package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	id "regdesk/pkg/domain"
)

// StatusPending is the status of every newly accepted record.
const StatusPending = "pending"

// TimestampLayout is the registeredAt wire format: UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is one accepted submission. The ID is assigned on acceptance and
// never changes.
type Record struct {
	RegistrationID    id.RegistrationID `json:"registrationId"`
	FullName          string            `json:"fullName"`
	DOB               string            `json:"dob"`
	Age               *int              `json:"age"`
	Gender            string            `json:"gender"`
	Mobile            string            `json:"mobile"`
	Email             string            `json:"email"`
	District          string            `json:"district"`
	EmergencyName     string            `json:"emergencyName"`
	EmergencyPhone    string            `json:"emergencyPhone"`
	EmergencyRelation string            `json:"emergencyRelation"`
	MedicalConditions string            `json:"medicalConditions"`
	ConsentAccuracy   bool              `json:"consentAccuracy"`
	ConsentMedical    bool              `json:"consentMedical"`
	ConsentRules      bool              `json:"consentRules"`
	ConsentData       bool              `json:"consentData"`
	PhotoData         string            `json:"photoData"`
	RegisteredAt      time.Time         `json:"registeredAt"`
	Status            string            `json:"status"`

	Extra Extra `json:"-"`
}

type recordJSON struct {
	RegistrationID    id.RegistrationID `json:"registrationId"`
	FullName          string            `json:"fullName"`
	DOB               string            `json:"dob"`
	Age               *int              `json:"age"`
	Gender            string            `json:"gender"`
	Mobile            string            `json:"mobile"`
	Email             string            `json:"email"`
	District          string            `json:"district"`
	EmergencyName     string            `json:"emergencyName"`
	EmergencyPhone    string            `json:"emergencyPhone"`
	EmergencyRelation string            `json:"emergencyRelation"`
	MedicalConditions string            `json:"medicalConditions"`
	ConsentAccuracy   bool              `json:"consentAccuracy"`
	ConsentMedical    bool              `json:"consentMedical"`
	ConsentRules      bool              `json:"consentRules"`
	ConsentData       bool              `json:"consentData"`
	PhotoData         string            `json:"photoData"`
	RegisteredAt      string            `json:"registeredAt"`
	Status            string            `json:"status"`
}

var recordKeys = jsonKeys(recordJSON{})

// FormatTimestamp renders t the way registeredAt is stored.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON flattens Extra next to the base fields and writes registeredAt
// as UTC with millisecond precision.
func (r Record) MarshalJSON() ([]byte, error) {
	base := recordJSON{
		RegistrationID:    r.RegistrationID,
		FullName:          r.FullName,
		DOB:               r.DOB,
		Age:               r.Age,
		Gender:            r.Gender,
		Mobile:            r.Mobile,
		Email:             r.Email,
		District:          r.District,
		EmergencyName:     r.EmergencyName,
		EmergencyPhone:    r.EmergencyPhone,
		EmergencyRelation: r.EmergencyRelation,
		MedicalConditions: r.MedicalConditions,
		ConsentAccuracy:   r.ConsentAccuracy,
		ConsentMedical:    r.ConsentMedical,
		ConsentRules:      r.ConsentRules,
		ConsentData:       r.ConsentData,
		PhotoData:         r.PhotoData,
		RegisteredAt:      FormatTimestamp(r.RegisteredAt),
		Status:            r.Status,
	}
	return marshalFlat(base, r.Extra, recordKeys)
}

// UnmarshalJSON reads base fields and moves unknown keys into Extra. An
// unparseable registeredAt is kept as the zero time.
func (r *Record) UnmarshalJSON(data []byte) error {
	var base recordJSON
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	extra, err := unmarshalExtra(data, recordKeys)
	if err != nil {
		return err
	}

	var at time.Time
	if base.RegisteredAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, base.RegisteredAt); err == nil {
			at = t
		}
	}

	*r = Record{
		RegistrationID:    base.RegistrationID,
		FullName:          base.FullName,
		DOB:               base.DOB,
		Age:               base.Age,
		Gender:            base.Gender,
		Mobile:            base.Mobile,
		Email:             base.Email,
		District:          base.District,
		EmergencyName:     base.EmergencyName,
		EmergencyPhone:    base.EmergencyPhone,
		EmergencyRelation: base.EmergencyRelation,
		MedicalConditions: base.MedicalConditions,
		ConsentAccuracy:   base.ConsentAccuracy,
		ConsentMedical:    base.ConsentMedical,
		ConsentRules:      base.ConsentRules,
		ConsentData:       base.ConsentData,
		PhotoData:         base.PhotoData,
		RegisteredAt:      at,
		Status:            base.Status,
		Extra:             extra,
	}
	return nil
}

// Field looks a field up by its JSON key, the way an admin column without a
// custom renderer reads it. Missing, false and null values read as "";
// lists are joined with ",".
func (r Record) Field(key string) string {
	switch key {
	case "registrationId":
		return r.RegistrationID.String()
	case FieldFullName:
		return r.FullName
	case FieldDOB:
		return r.DOB
	case "age":
		if r.Age == nil {
			return ""
		}
		return strconv.Itoa(*r.Age)
	case FieldGender:
		return r.Gender
	case FieldMobile:
		return r.Mobile
	case FieldEmail:
		return r.Email
	case FieldDistrict:
		return r.District
	case FieldEmergencyName:
		return r.EmergencyName
	case FieldEmergencyPhone:
		return r.EmergencyPhone
	case FieldEmergencyRelation:
		return r.EmergencyRelation
	case FieldMedicalConditions:
		return r.MedicalConditions
	case FieldConsentAccuracy:
		return boolField(r.ConsentAccuracy)
	case FieldConsentMedical:
		return boolField(r.ConsentMedical)
	case FieldConsentRules:
		return boolField(r.ConsentRules)
	case FieldConsentData:
		return boolField(r.ConsentData)
	case "photoData":
		return r.PhotoData
	case "registeredAt":
		return FormatTimestamp(r.RegisteredAt)
	case "status":
		return r.Status
	}
	if v, ok := r.Extra.Values[key]; ok {
		return v
	}
	if l, ok := r.Extra.Lists[key]; ok {
		return strings.Join(l, ",")
	}
	return ""
}

// AgeText renders the age for display, or "" when unknown.
func (r Record) AgeText() string {
	if r.Age == nil {
		return ""
	}
	return strconv.Itoa(*r.Age)
}

func boolField(b bool) string {
	if b {
		return "true"
	}
	return ""
}
