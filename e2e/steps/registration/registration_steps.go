package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"regdesk/internal/registration/events"
	"regdesk/internal/schemes"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Scheme() string
	SchemePath(suffix string) string
	POST(path string, body interface{}) error
	POSTFile(path, filename, contentType string, data []byte) error
	DELETE(path string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	DeliveredEvents() []events.Event
	Form() map[string]interface{}
	ResetForm(values map[string]interface{})
	Remember(key, value string)
	Recall(key string) string
}

// KeyRegistrationID is where the last accepted registration ID is remembered.
const KeyRegistrationID = "registrationId"

// defaultAge fits every built-in scheme's range.
const defaultAge = 20

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

// RegisterSteps registers form, draft, photo and submission steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrationSteps{tc: tc}

	// Filling the form
	ctx.Step(`^I fill in a valid registration$`, steps.fillValid)
	ctx.Step(`^I fill in a valid registration aged (\d+)$`, steps.fillValidAged)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, steps.setField)
	ctx.Step(`^I select "([^"]*)" values "([^"]*)"$`, steps.selectValues)
	ctx.Step(`^I clear "([^"]*)"$`, steps.clearField)
	ctx.Step(`^I type into the form$`, steps.typeIntoForm)

	// Live feedback
	ctx.Step(`^I validate "([^"]*)" with "([^"]*)"$`, steps.validateField)
	ctx.Step(`^I check the age for someone aged (\d+)$`, steps.checkAge)

	// Photo
	ctx.Step(`^I upload a JPEG photo$`, steps.uploadJPEG)
	ctx.Step(`^I upload a "([^"]*)" file as the photo$`, steps.uploadAs)
	ctx.Step(`^I remove the photo$`, steps.removePhoto)

	// Drafts
	ctx.Step(`^I save a draft$`, steps.saveDraft)
	ctx.Step(`^I restore the draft$`, steps.restoreDraft)
	ctx.Step(`^I discard the draft$`, steps.discardDraft)
	ctx.Step(`^I wait for the draft to settle$`, steps.waitForDebounce)
	ctx.Step(`^the restored "([^"]*)" should be "([^"]*)"$`, steps.restoredValueShouldBe)

	// Submission
	ctx.Step(`^I submit the form$`, steps.submit)
	ctx.Step(`^I submit an empty form$`, steps.submitEmpty)
	ctx.Step(`^(\d+) valid registrations? (?:are|is) submitted$`, steps.submitMany)
	ctx.Step(`^the submission should be accepted$`, steps.submissionAccepted)
	ctx.Step(`^the submission should be rejected with (\d+) errors?$`, steps.submissionRejected)
	ctx.Step(`^the field error "([^"]*)" should be "([^"]*)"$`, steps.fieldErrorShouldBe)
	ctx.Step(`^the first invalid field should be "([^"]*)"$`, steps.firstFieldShouldBe)
	ctx.Step(`^the registration ID should be "([^"]*)"$`, steps.registrationIDShouldBe)
	ctx.Step(`^the success row "([^"]*)" should be "([^"]*)"$`, steps.successRowShouldBe)
	ctx.Step(`^an? "([^"]*)" event should be delivered$`, steps.eventShouldBeDelivered)
}

type registrationSteps struct {
	tc TestContext
}

func (s *registrationSteps) fillValid(ctx context.Context) error {
	return s.fillValidAged(ctx, defaultAge)
}

func (s *registrationSteps) fillValidAged(ctx context.Context, age int) error {
	extra, ok := schemeValues[s.tc.Scheme()]
	if !ok {
		return fmt.Errorf("no sample values for scheme %q", s.tc.Scheme())
	}
	form := map[string]interface{}{
		"fullName":          "Asha Rawat",
		"dob":               DOBForAge(age),
		"gender":            "female",
		"mobile":            "9876543210",
		"email":             "asha@example.in",
		"district":          "dehradun",
		"emergencyName":     "Mohan Rawat",
		"emergencyPhone":    "9123456780",
		"emergencyRelation": "father",
		"consentAccuracy":   true,
		"consentMedical":    true,
		"consentRules":      true,
		"consentData":       true,
	}
	for k, v := range extra {
		form[k] = v
	}
	s.tc.ResetForm(form)
	return nil
}

func (s *registrationSteps) setField(ctx context.Context, field, value string) error {
	s.tc.Form()[field] = value
	return nil
}

func (s *registrationSteps) selectValues(ctx context.Context, field, values string) error {
	s.tc.Form()[field] = strings.Split(values, ",")
	return nil
}

func (s *registrationSteps) clearField(ctx context.Context, field string) error {
	delete(s.tc.Form(), field)
	return nil
}

func (s *registrationSteps) typeIntoForm(ctx context.Context) error {
	return s.tc.POST(s.tc.SchemePath("/input"), s.tc.Form())
}

func (s *registrationSteps) validateField(ctx context.Context, field, value string) error {
	return s.tc.POST(s.tc.SchemePath("/validate/"+field), map[string]string{"value": value})
}

func (s *registrationSteps) checkAge(ctx context.Context, age int) error {
	return s.tc.POST(s.tc.SchemePath("/age"), map[string]string{"dob": DOBForAge(age)})
}

func (s *registrationSteps) uploadJPEG(ctx context.Context) error {
	return s.tc.POSTFile(s.tc.SchemePath("/photo"), "photo.jpg", "image/jpeg", jpegHeader)
}

func (s *registrationSteps) uploadAs(ctx context.Context, contentType string) error {
	return s.tc.POSTFile(s.tc.SchemePath("/photo"), "upload", contentType, []byte("not an image"))
}

func (s *registrationSteps) removePhoto(ctx context.Context) error {
	return s.tc.DELETE(s.tc.SchemePath("/photo"))
}

func (s *registrationSteps) saveDraft(ctx context.Context) error {
	return s.tc.POST(s.tc.SchemePath("/draft"), s.tc.Form())
}

func (s *registrationSteps) restoreDraft(ctx context.Context) error {
	return s.tc.POST(s.tc.SchemePath("/draft/restore"), map[string]string{})
}

func (s *registrationSteps) discardDraft(ctx context.Context) error {
	return s.tc.DELETE(s.tc.SchemePath("/draft"))
}

func (s *registrationSteps) waitForDebounce(ctx context.Context) error {
	time.Sleep(200 * time.Millisecond)
	return nil
}

func (s *registrationSteps) restoredValueShouldBe(ctx context.Context, control, want string) error {
	v, err := s.tc.GetResponseField("values." + control)
	if err != nil {
		return err
	}
	list, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("values.%s is %T, not a list", control, v)
	}
	got := make([]string, 0, len(list))
	for _, item := range list {
		got = append(got, fmt.Sprint(item))
	}
	if joined := strings.Join(got, ","); joined != want {
		return fmt.Errorf("expected restored %s to be %q, got %q", control, want, joined)
	}
	return nil
}

func (s *registrationSteps) submit(ctx context.Context) error {
	if err := s.tc.POST(s.tc.SchemePath("/submit"), s.tc.Form()); err != nil {
		return err
	}
	if v, err := s.tc.GetResponseField("record.registrationId"); err == nil {
		s.tc.Remember(KeyRegistrationID, fmt.Sprint(v))
	}
	return nil
}

func (s *registrationSteps) submitEmpty(ctx context.Context) error {
	s.tc.ResetForm(map[string]interface{}{})
	return s.submit(ctx)
}

func (s *registrationSteps) submitMany(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := s.fillValid(ctx); err != nil {
			return err
		}
		if err := s.uploadJPEG(ctx); err != nil {
			return err
		}
		if err := s.submit(ctx); err != nil {
			return err
		}
		if err := s.submissionAccepted(ctx); err != nil {
			return fmt.Errorf("registration %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *registrationSteps) submissionAccepted(ctx context.Context) error {
	if status := s.tc.GetLastResponseStatus(); status != 201 {
		return fmt.Errorf("expected 201, got %d: %s", status, s.tc.GetLastResponseBody())
	}
	state, err := s.tc.GetResponseField("state")
	if err != nil {
		return err
	}
	if state != "accepted" {
		return fmt.Errorf("expected state accepted, got %v", state)
	}
	return nil
}

func (s *registrationSteps) submissionRejected(ctx context.Context, n int) error {
	if status := s.tc.GetLastResponseStatus(); status != 422 {
		return fmt.Errorf("expected 422, got %d: %s", status, s.tc.GetLastResponseBody())
	}
	v, err := s.tc.GetResponseField("errors")
	if err != nil {
		return err
	}
	errs, _ := v.([]interface{})
	if len(errs) != n {
		return fmt.Errorf("expected %d errors, got %d: %s", n, len(errs), s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *registrationSteps) fieldErrorShouldBe(ctx context.Context, key, want string) error {
	v, err := s.tc.GetResponseField("errors")
	if err != nil {
		return err
	}
	errs, _ := v.([]interface{})
	for _, e := range errs {
		m, _ := e.(map[string]interface{})
		if m["key"] == key {
			if m["message"] != want {
				return fmt.Errorf("expected error for %s to be %q, got %q", key, want, m["message"])
			}
			return nil
		}
	}
	return fmt.Errorf("no error reported for %s: %s", key, s.tc.GetLastResponseBody())
}

func (s *registrationSteps) firstFieldShouldBe(ctx context.Context, want string) error {
	v, err := s.tc.GetResponseField("firstField")
	if err != nil {
		return err
	}
	if v != want {
		return fmt.Errorf("expected first invalid field %q, got %v", want, v)
	}
	return nil
}

func (s *registrationSteps) registrationIDShouldBe(ctx context.Context, want string) error {
	if got := s.tc.Recall(KeyRegistrationID); got != want {
		return fmt.Errorf("expected registration ID %q, got %q", want, got)
	}
	return nil
}

func (s *registrationSteps) successRowShouldBe(ctx context.Context, label, want string) error {
	v, err := s.tc.GetResponseField("successRows")
	if err != nil {
		return err
	}
	rows, _ := v.([]interface{})
	for _, r := range rows {
		m, _ := r.(map[string]interface{})
		if m["label"] == label {
			if got := fmt.Sprint(m["value"]); got != want {
				return fmt.Errorf("expected %s to be %q, got %q", label, want, got)
			}
			return nil
		}
	}
	return fmt.Errorf("no success row labelled %q", label)
}

func (s *registrationSteps) eventShouldBeDelivered(ctx context.Context, eventType string) error {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, e := range s.tc.DeliveredEvents() {
			if e.Type.String() == eventType && e.Scheme == s.tc.Scheme() {
				return nil
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("no %s event delivered for %s", eventType, s.tc.Scheme())
}

// DOBForAge returns a date of birth that is age years old today, with a few
// days of margin so the age holds across midnight.
func DOBForAge(age int) string {
	return time.Now().UTC().AddDate(-age, 0, -10).Format("2006-01-02")
}

var schemeValues = map[string]map[string]interface{}{
	schemes.SlugAdventureTraining: {
		"courseType":      "basic_mountaineering",
		"batchMonth":      "may_2026",
		"accommodation":   "yes",
		"fitnessLevel":    "good",
		"qualification":   "graduate",
		"swimmingAbility": "non_swimmer",
	},
	schemes.SlugVocationalTraining: {
		"sector":           "it_ites",
		"courseDuration":   "6_months",
		"qualification":    "graduate",
		"employmentStatus": "un_employed",
	},
	schemes.SlugYouthVolunteering: {
		"serviceArea":   []string{"health"},
		"availability":  "weekends",
		"qualification": "graduate",
	},
	schemes.SlugKhelMahakumbh: {
		"sport": []string{"kabaddi", "athletics"},
	},
}
