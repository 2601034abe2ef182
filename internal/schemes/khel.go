package schemes

import (
	"strings"
	"time"

	"regdesk/internal/registration/eligibility"
	"regdesk/internal/registration/models"
	pstrings "regdesk/pkg/platform/strings"
)

// Khel Mahakumbh messages.
const (
	MsgNoSport       = "Please select at least one sport."
	MsgTooManySports = "You can select up to 3 sports."
)

// FieldCategory is the record field holding the derived age category.
const FieldCategory = "category"

type khelExtension struct {
	declared
	minAge int
	maxAge int
}

var (
	_ models.Extension      = khelExtension{}
	_ models.ReceiptBuilder = khelExtension{}
	_ ageBound              = khelExtension{}
)

// KhelMahakumbh is the state sports festival registration.
func KhelMahakumbh() models.Scheme {
	const minAge, maxAge = 10, 60
	ext := khelExtension{
		declared: declared{
			fields: []models.FieldSpec{
				{Key: "sports", Control: "sport", Kind: models.KindMulti, ErrorKey: "sport", Validated: true},
			},
			required: []requirement{{"sports", MsgNoSport}},
			progress: []string{"sports"},
		},
		minAge: minAge,
		maxAge: maxAge,
	}
	return newScheme(SlugKhelMahakumbh, "Khel Mahakumbh", "kmk", "KMK-UT-2026", minAge, maxAge, ext)
}

func (k khelExtension) withAges(minAge, maxAge int) models.Extension {
	k.minAge, k.maxAge = minAge, maxAge
	return k
}

func (k khelExtension) ValidateExtra(d models.FormData) []models.FieldError {
	if len(d.Extra.List("sports")) > maxSelections {
		return []models.FieldError{{Key: "sport", Message: MsgTooManySports}}
	}
	return k.declared.ValidateExtra(d)
}

// BuildRecord copies the sports and stores the age category next to them.
func (k khelExtension) BuildRecord(d models.FormData, base models.Record) models.Record {
	r := k.declared.BuildRecord(d, base)
	category := eligibility.CategoryNone
	if r.Age != nil {
		category = eligibility.Categorize(*r.Age, k.minAge, k.maxAge)
	}
	r.Extra.SetValue(FieldCategory, category.String())
	return r
}

func sports(r models.Record) string {
	return pstrings.HumanizeList(r.Extra.List("sports"))
}

func (khelExtension) BuildSuccessRows(r models.Record, _ *time.Location) []models.SuccessRow {
	return []models.SuccessRow{
		{Label: "Name", Value: r.FullName},
		{Label: "Date of Birth", Value: r.DOB},
		{Label: "Age / Category", Value: r.AgeText() + " yrs / " + r.Extra.Value(FieldCategory)},
		{Label: "Gender", Value: models.GenderLabel(r.Gender)},
		{Label: "Mobile", Value: mobile(r)},
		{Label: "Email", Value: email(r)},
		{Label: "District", Value: pstrings.Humanize(r.District)},
		{Label: "Sports", Value: sports(r)},
		{Label: "Emergency", Value: models.EmergencyContact(r)},
	}
}

// BuildReceiptRows lists the printed receipt, which carries more detail than
// the success view.
func (khelExtension) BuildReceiptRows(r models.Record, loc *time.Location) []models.SuccessRow {
	return []models.SuccessRow{
		{Label: "Registration ID", Value: r.RegistrationID.String()},
		{Label: "Full Name", Value: r.FullName},
		{Label: "Date of Birth", Value: r.DOB},
		{Label: "Age / Category", Value: ageYears(r) + " / " + r.Extra.Value(FieldCategory)},
		{Label: "Gender", Value: models.GenderLabel(r.Gender)},
		{Label: "Mobile", Value: mobile(r)},
		{Label: "Email", Value: email(r)},
		{Label: "District", Value: pstrings.Humanize(r.District)},
		{Label: "Sports", Value: sports(r)},
		{Label: "Emergency Contact", Value: models.EmergencyContact(r) + " — " + r.EmergencyRelation},
		{Label: "Medical Info", Value: pstrings.Or(r.MedicalConditions, "None")},
		{Label: "Registered At", Value: registeredAt(r, loc)},
		{Label: "Status", Value: strings.ToUpper(r.Status)},
	}
}

func (khelExtension) AdminColumns() []models.Column {
	return []models.Column{
		{Key: models.FieldFullName, Label: "Name"},
		{
			Key:   "age",
			Label: "Age/Cat",
			Render: func(r models.Record) string {
				return r.AgeText() + "yr/" + r.Extra.Value(FieldCategory)
			},
		},
		{Key: models.FieldGender, Label: "Gender", Render: func(r models.Record) string { return models.GenderLabel(r.Gender) }},
		{Key: models.FieldDistrict, Label: "District", Render: func(r models.Record) string { return pstrings.Humanize(r.District) }},
		{Key: "sports", Label: "Sports", Render: sports, CSV: pipeJoined("sports")},
		{Key: models.FieldMobile, Label: "Mobile", Render: mobile},
	}
}
