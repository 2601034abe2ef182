// Package form reads submitted form state into FormData and computes the
// completion percentage. Reading never mutates the submitted values.
package form

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"regdesk/internal/registration/eligibility"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/validation"
	pstrings "regdesk/pkg/platform/strings"
)

// Values is a posted form. It implements models.FormValues.
type Values struct {
	v url.Values
}

var _ models.FormValues = Values{}

// FromURLValues wraps url-encoded or multipart form values.
func FromURLValues(v url.Values) Values {
	if v == nil {
		v = url.Values{}
	}
	return Values{v: v}
}

// FromJSON converts a JSON object into form values: strings and numbers
// become single values, booleans become "true" or nothing, arrays become
// repeated values.
func FromJSON(data []byte) (Values, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return Values{}, fmt.Errorf("decode form: %w", err)
	}
	v := url.Values{}
	for key, raw := range obj {
		switch val := raw.(type) {
		case string:
			v.Set(key, val)
		case bool:
			if val {
				v.Set(key, "true")
			}
		case float64:
			v.Set(key, strconv.FormatFloat(val, 'f', -1, 64))
		case []any:
			for _, item := range val {
				if s, ok := item.(string); ok {
					v.Add(key, s)
				}
			}
		}
	}
	return Values{v: v}, nil
}

func (f Values) Text(name string) string {
	return f.v.Get(name)
}

func (f Values) Choice(name string) string {
	return f.v.Get(name)
}

func (f Values) Selected(name string) []string {
	return pstrings.Selected(f.v[name])
}

func (f Values) Checked(name string) bool {
	return validation.IsTruthy(f.v.Get(name))
}

// Raw exposes the underlying values.
func (f Values) Raw() url.Values { return f.v }

// Collect reads the base fields and the extension's fields.
func Collect(v models.FormValues, ext models.Extension) models.FormData {
	d := models.FormData{
		FullName:          v.Text(models.FieldFullName),
		DOB:               v.Text(models.FieldDOB),
		Gender:            v.Choice(models.FieldGender),
		Mobile:            v.Text(models.FieldMobile),
		Email:             v.Text(models.FieldEmail),
		District:          v.Choice(models.FieldDistrict),
		EmergencyName:     v.Text(models.FieldEmergencyName),
		EmergencyPhone:    v.Text(models.FieldEmergencyPhone),
		EmergencyRelation: v.Choice(models.FieldEmergencyRelation),
		MedicalConditions: v.Text(models.FieldMedicalConditions),
		ConsentAccuracy:   v.Checked(models.FieldConsentAccuracy),
		ConsentMedical:    v.Checked(models.FieldConsentMedical),
		ConsentRules:      v.Checked(models.FieldConsentRules),
		ConsentData:       v.Checked(models.FieldConsentData),
	}
	if ext != nil {
		d.Extra = ext.CollectExtra(v)
	}
	return d
}

// Restore returns the control values that re-populate a form from a draft,
// keyed by control name. Text inputs are always restored; selects, radios
// and checkboxes only when the draft holds a value.
func Restore(d models.FormData, ext models.Extension) map[string][]string {
	out := map[string][]string{
		models.FieldFullName:          {d.FullName},
		models.FieldDOB:               {d.DOB},
		models.FieldMobile:            {d.Mobile},
		models.FieldEmail:             {d.Email},
		models.FieldEmergencyName:     {d.EmergencyName},
		models.FieldEmergencyPhone:    {d.EmergencyPhone},
		models.FieldMedicalConditions: {d.MedicalConditions},
	}
	for name, value := range map[string]string{
		models.FieldDistrict:          d.District,
		models.FieldEmergencyRelation: d.EmergencyRelation,
		models.FieldGender:            d.Gender,
	} {
		if value != "" {
			out[name] = []string{value}
		}
	}
	for name, checked := range map[string]bool{
		models.FieldConsentAccuracy: d.ConsentAccuracy,
		models.FieldConsentMedical:  d.ConsentMedical,
		models.FieldConsentRules:    d.ConsentRules,
		models.FieldConsentData:     d.ConsentData,
	} {
		if checked {
			out[name] = []string{"true"}
		}
	}
	if ext != nil {
		for name, values := range ext.RestoreExtra(d) {
			out[name] = values
		}
	}
	return out
}

// BaseCheckpoints is the number of base progress checkpoints.
const BaseCheckpoints = 10

// Progress returns the completion percentage, 0 to 100.
func Progress(d models.FormData, hasPhoto bool, minAge, maxAge int, ext models.Extension, now time.Time) int {
	n := 0
	if len([]rune(strings.TrimSpace(d.FullName))) >= validation.MinNameLength {
		n++
	}
	if d.DOB != "" && eligibility.Compute(d.DOB, minAge, maxAge, now).Valid() {
		n++
	}
	if d.Gender != "" {
		n++
	}
	if len(d.Mobile) == 10 {
		n++
	}
	if d.District != "" {
		n++
	}
	if hasPhoto {
		n++
	}
	if len([]rune(strings.TrimSpace(d.EmergencyName))) >= validation.MinNameLength {
		n++
	}
	if len(d.EmergencyPhone) == 10 {
		n++
	}
	if d.EmergencyRelation != "" {
		n++
	}
	if d.AllConsents() {
		n++
	}

	total := BaseCheckpoints
	if ext != nil {
		n += ext.ExtraProgress(d)
		total += ext.ExtraProgressMax()
	}

	pct := int(math.Round(float64(n) / float64(total) * 100))
	return min(100, pct)
}
