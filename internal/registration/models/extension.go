package models

import (
	"strings"
	"time"
)

// Extension is the capability set every scheme supplies to the engine. It is
// required; embed NopExtension to inherit no-op defaults.
type Extension interface {
	// ExtraFields declares the scheme-specific fields.
	ExtraFields() []FieldSpec
	// CollectExtra reads the scheme-specific fields from the form.
	CollectExtra(v FormValues) Extra
	// RestoreExtra returns control values that re-populate the
	// scheme-specific controls from a draft, keyed by control name.
	RestoreExtra(d FormData) map[string][]string
	// ExtraProgress counts completed scheme-specific checkpoints.
	ExtraProgress(d FormData) int
	// ExtraProgressMax is the number of scheme-specific checkpoints.
	ExtraProgressMax() int
	// ValidateExtra returns scheme-specific errors. They are appended after
	// the base errors, never replacing them.
	ValidateExtra(d FormData) []FieldError
	// BuildRecord adds scheme-specific fields to the assembled base record.
	BuildRecord(d FormData, base Record) Record
	// BuildSuccessRows lists the label/value rows of the success view.
	BuildSuccessRows(r Record, loc *time.Location) []SuccessRow
	// AdminColumns lists the admin table columns between the ID and the
	// timestamp.
	AdminColumns() []Column
}

// NopExtension contributes nothing beyond the base form.
type NopExtension struct{}

var _ Extension = NopExtension{}

func (NopExtension) ExtraFields() []FieldSpec                   { return nil }
func (NopExtension) CollectExtra(FormValues) Extra              { return Extra{} }
func (NopExtension) RestoreExtra(FormData) map[string][]string  { return map[string][]string{} }
func (NopExtension) ExtraProgress(FormData) int                 { return 0 }
func (NopExtension) ExtraProgressMax() int                      { return 0 }
func (NopExtension) ValidateExtra(FormData) []FieldError        { return nil }
func (NopExtension) BuildRecord(_ FormData, base Record) Record { return base }

func (NopExtension) BuildSuccessRows(r Record, loc *time.Location) []SuccessRow {
	return DefaultSuccessRows(r, loc)
}

func (NopExtension) AdminColumns() []Column {
	return []Column{
		{Key: FieldFullName, Label: "Name"},
		{Key: "age", Label: "Age"},
		{Key: FieldDistrict, Label: "District"},
	}
}

// FieldKind is how a field's control posts its value.
type FieldKind int

const (
	// KindText is a text input or textarea.
	KindText FieldKind = iota
	// KindChoice is a select or a radio group.
	KindChoice
	// KindMulti is a checkbox group.
	KindMulti
)

// FieldSpec declares one scheme-specific field.
type FieldSpec struct {
	// Key is the JSON key in drafts and records.
	Key string
	// Control is the form control name; defaults to Key.
	Control string
	Kind    FieldKind
	// ErrorKey is the key ValidateExtra reports errors under; defaults to
	// Key. Empty when the field is never validated is fine.
	ErrorKey string
	// Validated marks fields ValidateExtra can report.
	Validated bool
}

// ControlName returns Control, or Key when unset.
func (f FieldSpec) ControlName() string {
	if f.Control != "" {
		return f.Control
	}
	return f.Key
}

// ErrorKeyOrKey returns the key errors are reported under, or "" when the
// field is never validated.
func (f FieldSpec) ErrorKeyOrKey() string {
	if !f.Validated {
		return ""
	}
	if f.ErrorKey != "" {
		return f.ErrorKey
	}
	return f.Key
}

// CollectFields reads specs from the form: text and choice fields as values,
// checkbox groups as lists in posted order.
func CollectFields(specs []FieldSpec, v FormValues) Extra {
	var extra Extra
	for _, f := range specs {
		switch f.Kind {
		case KindMulti:
			extra.SetList(f.Key, v.Selected(f.ControlName()))
		case KindChoice:
			extra.SetValue(f.Key, v.Choice(f.ControlName()))
		default:
			extra.SetValue(f.Key, v.Text(f.ControlName()))
		}
	}
	return extra
}

// RestoreFields returns control values for specs. Empty values are skipped so
// controls keep their defaults; lists are restored as given.
func RestoreFields(specs []FieldSpec, d FormData) map[string][]string {
	out := make(map[string][]string, len(specs))
	for _, f := range specs {
		if f.Kind == KindMulti {
			if list, ok := d.Extra.Lists[f.Key]; ok {
				out[f.ControlName()] = append([]string{}, list...)
			}
			continue
		}
		if v := d.Extra.Value(f.Key); v != "" {
			out[f.ControlName()] = []string{v}
		}
	}
	return out
}

// CopyFields copies the listed fields from form data into the record, with
// empty defaults ("" and []).
func CopyFields(specs []FieldSpec, d FormData, r *Record) {
	for _, f := range specs {
		if f.Kind == KindMulti {
			r.Extra.SetList(f.Key, append([]string{}, d.Extra.List(f.Key)...))
			continue
		}
		r.Extra.SetValue(f.Key, d.Extra.Value(f.Key))
	}
}

// DefaultSuccessRows lists the base fields every scheme shows.
func DefaultSuccessRows(r Record, loc *time.Location) []SuccessRow {
	email := r.Email
	if email == "" {
		email = "Not provided"
	}
	return []SuccessRow{
		{Label: "Registration ID", Value: r.RegistrationID.String()},
		{Label: "Full Name", Value: r.FullName},
		{Label: "Date of Birth", Value: r.DOB},
		{Label: "Age", Value: r.AgeText() + " years"},
		{Label: "Gender", Value: GenderLabel(r.Gender)},
		{Label: "Mobile", Value: "+91 " + r.Mobile},
		{Label: "Email", Value: email},
		{Label: "District", Value: r.District},
		{Label: "Emergency Contact", Value: EmergencyContact(r)},
		{Label: "Registered At", Value: DisplayTime(r.RegisteredAt, loc)},
	}
}

// GenderLabel replaces the first underscore of a gender option with a space.
func GenderLabel(g string) string {
	return strings.Replace(g, "_", " ", 1)
}

// EmergencyContact renders "name (+91 phone)".
func EmergencyContact(r Record) string {
	return r.EmergencyName + " (+91 " + r.EmergencyPhone + ")"
}

// ReceiptBuilder is implemented by schemes whose printed receipt differs from
// the success view.
type ReceiptBuilder interface {
	BuildReceiptRows(r Record, loc *time.Location) []SuccessRow
}

// ReceiptRows returns the receipt rows of ext, falling back to its success
// rows.
func ReceiptRows(ext Extension, r Record, loc *time.Location) []SuccessRow {
	if rb, ok := ext.(ReceiptBuilder); ok {
		return rb.BuildReceiptRows(r, loc)
	}
	return ext.BuildSuccessRows(r, loc)
}
