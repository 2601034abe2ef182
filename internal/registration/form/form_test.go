package form

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"regdesk/internal/registration/models"
)

var now = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

// multiExt is a one-field extension with a checkbox group posted as "sport".
type multiExt struct {
	models.NopExtension
}

var multiSpecs = []models.FieldSpec{
	{Key: "sports", Control: "sport", Kind: models.KindMulti, Validated: true, ErrorKey: "sport"},
	{Key: "level", Kind: models.KindChoice},
}

func (multiExt) ExtraFields() []models.FieldSpec { return multiSpecs }

func (multiExt) CollectExtra(v models.FormValues) models.Extra {
	return models.CollectFields(multiSpecs, v)
}

func (multiExt) RestoreExtra(d models.FormData) map[string][]string {
	return models.RestoreFields(multiSpecs, d)
}

func (multiExt) ExtraProgress(d models.FormData) int {
	if len(d.Extra.List("sports")) > 0 {
		return 1
	}
	return 0
}

func (multiExt) ExtraProgressMax() int { return 1 }

func completeValues() url.Values {
	return url.Values{
		"fullName":          {"  Asha Rawat "},
		"dob":               {"2000-04-12"},
		"gender":            {"female"},
		"mobile":            {"9876543210"},
		"email":             {""},
		"district":          {"dehradun"},
		"emergencyName":     {"Mohan Rawat"},
		"emergencyPhone":    {"9123456780"},
		"emergencyRelation": {"father"},
		"consentAccuracy":   {"on"},
		"consentMedical":    {"on"},
		"consentRules":      {"on"},
		"consentData":       {"on"},
		"sport":             {"kabaddi", " athletics ", "kabaddi", ""},
	}
}

type FormSuite struct {
	suite.Suite
}

func TestFormSuite(t *testing.T) {
	suite.Run(t, new(FormSuite))
}

// =============================================================================
// Collect
// =============================================================================

func (s *FormSuite) TestCollect() {
	s.Run("reads raw text and checked boxes", func() {
		d := Collect(FromURLValues(completeValues()), multiExt{})
		s.Equal("  Asha Rawat ", d.FullName, "collection keeps raw text")
		s.Equal("female", d.Gender)
		s.True(d.AllConsents())
		s.Equal([]string{"kabaddi", "athletics"}, d.Extra.List("sports"))
		s.Equal("", d.Extra.Value("level"))
	})

	s.Run("unchecked group collects an empty list", func() {
		v := completeValues()
		v.Del("sport")
		d := Collect(FromURLValues(v), multiExt{})
		s.NotNil(d.Extra.List("sports"))
		s.Empty(d.Extra.List("sports"))
	})

	s.Run("does not mutate the submitted values", func() {
		v := completeValues()
		_ = Collect(FromURLValues(v), multiExt{})
		s.Equal([]string{"kabaddi", " athletics ", "kabaddi", ""}, v["sport"])
	})

	s.Run("nil values behave as an empty form", func() {
		d := Collect(FromURLValues(nil), models.NopExtension{})
		s.Equal(models.FormData{}, d)
	})
}

func (s *FormSuite) TestFromJSON() {
	v, err := FromJSON([]byte(`{"fullName":"Asha","consentData":true,"consentRules":false,"sport":["kabaddi","chess"],"mobile":9876543210}`))
	s.Require().NoError(err)

	d := Collect(v, multiExt{})
	s.Equal("Asha", d.FullName)
	s.True(d.ConsentData)
	s.False(d.ConsentRules)
	s.Equal("9876543210", d.Mobile)
	s.Equal([]string{"kabaddi", "chess"}, d.Extra.List("sports"))

	_, err = FromJSON([]byte(`[1,2]`))
	s.Error(err)
}

// =============================================================================
// Restore
// =============================================================================

func (s *FormSuite) TestRestore() {
	s.Run("text inputs are restored even when empty", func() {
		out := Restore(models.FormData{FullName: "Asha"}, models.NopExtension{})
		s.Equal([]string{"Asha"}, out["fullName"])
		s.Equal([]string{""}, out["email"])
		s.Equal([]string{""}, out["medicalConditions"])
	})

	s.Run("selects and consents only when set", func() {
		out := Restore(models.FormData{FullName: "Asha", ConsentData: true}, models.NopExtension{})
		s.NotContains(out, "district")
		s.NotContains(out, "gender")
		s.NotContains(out, "consentAccuracy")
		s.Equal([]string{"true"}, out["consentData"])
	})

	s.Run("extension controls use their control names", func() {
		d := Collect(FromURLValues(completeValues()), multiExt{})
		out := Restore(d, multiExt{})
		s.Equal([]string{"kabaddi", "athletics"}, out["sport"])
		s.NotContains(out, "level")
	})

	s.Run("restored values collect back to the same data", func() {
		d := Collect(FromURLValues(completeValues()), multiExt{})
		again := Collect(FromURLValues(url.Values(Restore(d, multiExt{}))), multiExt{})
		s.Equal(d, again)
	})
}

// =============================================================================
// Progress
// =============================================================================

func TestProgress(t *testing.T) {
	full := Collect(FromURLValues(completeValues()), multiExt{})

	t.Run("complete form with photo is 100", func(t *testing.T) {
		assert.Equal(t, 100, Progress(full, true, 10, 60, multiExt{}, now))
	})

	t.Run("empty form is 0", func(t *testing.T) {
		assert.Equal(t, 0, Progress(models.FormData{}, false, 10, 60, multiExt{}, now))
	})

	t.Run("missing photo drops one checkpoint of eleven", func(t *testing.T) {
		assert.Equal(t, 91, Progress(full, false, 10, 60, multiExt{}, now))
	})

	t.Run("base only scheme counts ten checkpoints", func(t *testing.T) {
		d := models.FormData{FullName: "Asha", Gender: "female"}
		assert.Equal(t, 20, Progress(d, false, 10, 60, models.NopExtension{}, now))
	})

	t.Run("short names and phones do not count", func(t *testing.T) {
		d := models.FormData{FullName: " Al ", Mobile: "98765", EmergencyPhone: "12345678901"}
		assert.Equal(t, 0, Progress(d, false, 10, 60, models.NopExtension{}, now))
	})

	t.Run("unparseable date does not count", func(t *testing.T) {
		d := models.FormData{DOB: "12/04/2000"}
		assert.Equal(t, 0, Progress(d, false, 10, 60, models.NopExtension{}, now))
	})

	t.Run("partial consents do not count", func(t *testing.T) {
		d := full
		d.ConsentMedical = false
		require.True(t, full.AllConsents())
		assert.Equal(t, 82, Progress(d, false, 10, 60, multiExt{}, now))
	})
}
