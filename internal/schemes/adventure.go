package schemes

import (
	"time"

	"regdesk/internal/registration/models"
	pstrings "regdesk/pkg/platform/strings"
)

type adventureExtension struct {
	declared
}

var _ models.Extension = adventureExtension{}

// AdventureTraining is the adventure sports course registration.
func AdventureTraining() models.Scheme {
	ext := adventureExtension{declared{
		fields: []models.FieldSpec{
			required("courseType"),
			required("batchMonth"),
			required("accommodation"),
			required("fitnessLevel"),
			{Key: "priorActivities", Control: "priorActivity", Kind: models.KindMulti},
			text("highestAltitude"),
			required(fieldQualification),
			required("swimmingAbility"),
			choice("bloodGroup"),
		},
		required: []requirement{
			{"courseType", "Please select a course or program type."},
			{"batchMonth", "Please select your preferred batch month."},
			{"accommodation", "Please indicate accommodation requirement."},
			{"fitnessLevel", "Please select your fitness level."},
			{fieldQualification, msgSelectQualification},
			{"swimmingAbility", "Please indicate your swimming ability."},
		},
		progress: []string{"courseType", "batchMonth", "fitnessLevel", fieldQualification, "swimmingAbility"},
	}}
	return newScheme(SlugAdventureTraining, "Adventure Training", "at", "AT-UT-2026", 15, 35, ext)
}

func (adventureExtension) BuildSuccessRows(r models.Record, loc *time.Location) []models.SuccessRow {
	return []models.SuccessRow{
		{Label: "Registration ID", Value: r.RegistrationID.String()},
		{Label: "Full Name", Value: r.FullName},
		{Label: "Date of Birth", Value: r.DOB},
		{Label: "Age", Value: ageYears(r)},
		{Label: "Gender", Value: models.GenderLabel(r.Gender)},
		{Label: "Mobile", Value: mobile(r)},
		{Label: "Email", Value: email(r)},
		{Label: "Home District", Value: r.District},
		{Label: "Course / Program", Value: humanized("courseType")(r)},
		{Label: "Preferred Batch", Value: humanized("batchMonth")(r)},
		{Label: "Fitness Level", Value: humanized("fitnessLevel")(r)},
		{Label: "Prior Activities", Value: pstrings.Or(pstrings.HumanizeList(r.Extra.List("priorActivities")), "None")},
		{Label: "Swimming Ability", Value: humanized("swimmingAbility")(r)},
		{Label: "Blood Group", Value: pstrings.Or(r.Extra.Value("bloodGroup"), "Not provided")},
		{Label: "Emergency Contact", Value: models.EmergencyContact(r)},
		{Label: "Registered At", Value: registeredAt(r, loc)},
	}
}

func (adventureExtension) AdminColumns() []models.Column {
	return append(baseColumns(),
		models.Column{Key: "courseType", Label: "Course", Render: humanized("courseType")},
		models.Column{Key: "batchMonth", Label: "Batch", Render: humanized("batchMonth")},
		models.Column{Key: "fitnessLevel", Label: "Fitness", Render: humanized("fitnessLevel")},
		models.Column{Key: "bloodGroup", Label: "Blood Grp"},
	)
}
