package schemes

import (
	"time"

	"regdesk/internal/registration/models"
	pstrings "regdesk/pkg/platform/strings"
)

// MsgTooManyServiceAreas is reported when more areas are ticked than allowed.
const MsgTooManyServiceAreas = "You can select up to 3 service areas."

type volunteeringExtension struct {
	declared
}

var _ models.Extension = volunteeringExtension{}

// YouthVolunteering is the youth volunteer application.
func YouthVolunteering() models.Scheme {
	ext := volunteeringExtension{declared{
		fields: []models.FieldSpec{
			{Key: "serviceAreas", Control: "serviceArea", Kind: models.KindMulti, ErrorKey: "serviceArea", Validated: true},
			required("availability"),
			text("motivation"),
			required(fieldQualification),
			choice("yearPassed"),
			text("priorExperience"),
			{Key: "languages", Control: "language", Kind: models.KindMulti},
		},
		required: []requirement{
			{"serviceAreas", "Please select at least one service area."},
			{"availability", "Please select your availability."},
			{fieldQualification, msgSelectQualification},
		},
		progress: []string{"availability", "serviceAreas", fieldQualification},
	}}
	s := newScheme(SlugYouthVolunteering, "Youth Volunteering", "yv", "YV-UT-2025", 18, 29, ext)
	s.SuccessMessage = "Your Youth Volunteering application has been received."
	return s
}

func (v volunteeringExtension) ValidateExtra(d models.FormData) []models.FieldError {
	errs := v.declared.ValidateExtra(d)
	if len(d.Extra.List("serviceAreas")) > maxSelections {
		// Reported ahead of the other extras so focus lands on the group.
		errs = append([]models.FieldError{{Key: "serviceArea", Message: MsgTooManyServiceAreas}}, errs...)
	}
	return errs
}

func (volunteeringExtension) BuildSuccessRows(r models.Record, loc *time.Location) []models.SuccessRow {
	return []models.SuccessRow{
		{Label: "Application ID", Value: r.RegistrationID.String()},
		{Label: "Full Name", Value: r.FullName},
		{Label: "Date of Birth", Value: r.DOB},
		{Label: "Age", Value: ageYears(r)},
		{Label: "Gender", Value: models.GenderLabel(r.Gender)},
		{Label: "Mobile", Value: mobile(r)},
		{Label: "Email", Value: email(r)},
		{Label: "District", Value: r.District},
		{Label: "Service Area(s)", Value: pstrings.HumanizeList(r.Extra.List("serviceAreas"))},
		{Label: "Availability", Value: humanized("availability")(r)},
		{Label: "Qualification", Value: humanized(fieldQualification)(r)},
		{Label: "Emergency Contact", Value: models.EmergencyContact(r)},
		{Label: "Registered At", Value: registeredAt(r, loc)},
	}
}

func (volunteeringExtension) AdminColumns() []models.Column {
	return append(baseColumns(),
		models.Column{
			Key:   "serviceAreas",
			Label: "Service Areas",
			Render: func(r models.Record) string {
				return pstrings.HumanizeList(r.Extra.List("serviceAreas"))
			},
			CSV: pipeJoined("serviceAreas"),
		},
		models.Column{Key: fieldQualification, Label: "Qualification", Render: humanized(fieldQualification)},
		models.Column{Key: "availability", Label: "Availability", Render: humanized("availability")},
	)
}
