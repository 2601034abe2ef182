package schemes

import (
	"time"

	"regdesk/internal/registration/models"
)

type vocationalExtension struct {
	declared
}

var _ models.Extension = vocationalExtension{}

// VocationalTraining is the skill development enrollment.
func VocationalTraining() models.Scheme {
	ext := vocationalExtension{declared{
		fields: []models.FieldSpec{
			required("sector"),
			required("courseDuration"),
			choice("trainingMode"),
			choice("employmentGoal"),
			required(fieldQualification),
			required("employmentStatus"),
			choice("category"),
			text("aadhaar"),
		},
		required: []requirement{
			{"sector", "Please select a trade / sector."},
			{"courseDuration", "Please select a training duration."},
			{fieldQualification, msgSelectQualification},
			{"employmentStatus", "Please select your current status."},
		},
		progress: []string{"sector", "courseDuration", fieldQualification, "employmentStatus"},
	}}
	return newScheme(SlugVocationalTraining, "Vocational Training", "vt", "VT-UT-2025", 14, 35, ext)
}

func (vocationalExtension) BuildSuccessRows(r models.Record, loc *time.Location) []models.SuccessRow {
	return []models.SuccessRow{
		{Label: "Enrollment ID", Value: r.RegistrationID.String()},
		{Label: "Full Name", Value: r.FullName},
		{Label: "Date of Birth", Value: r.DOB},
		{Label: "Age", Value: ageYears(r)},
		{Label: "Gender", Value: models.GenderLabel(r.Gender)},
		{Label: "Mobile", Value: mobile(r)},
		{Label: "Email", Value: email(r)},
		{Label: "District", Value: r.District},
		{Label: "Sector / Trade", Value: humanized("sector")(r)},
		{Label: "Training Duration", Value: humanized("courseDuration")(r)},
		{Label: "Qualification", Value: humanized(fieldQualification)(r)},
		{Label: "Current Status", Value: humanized("employmentStatus")(r)},
		{Label: "Emergency Contact", Value: models.EmergencyContact(r)},
		{Label: "Registered At", Value: registeredAt(r, loc)},
	}
}

func (vocationalExtension) AdminColumns() []models.Column {
	return append(baseColumns(),
		models.Column{Key: "sector", Label: "Sector", Render: humanized("sector")},
		models.Column{Key: "courseDuration", Label: "Duration", Render: humanized("courseDuration")},
		models.Column{Key: fieldQualification, Label: "Qualification", Render: humanized(fieldQualification)},
		models.Column{Key: "employmentStatus", Label: "Status", Render: humanized("employmentStatus")},
	)
}
