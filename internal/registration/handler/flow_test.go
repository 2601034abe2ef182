package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regdesk/internal/platform/logger"
	"regdesk/internal/registration/admin"
	"regdesk/internal/registration/handler"
	"regdesk/internal/registration/service"
	"regdesk/internal/schemes"
	"regdesk/internal/storage"
	id "regdesk/pkg/domain"
	"regdesk/pkg/testutil"
)

const kmk = "/schemes/" + schemes.SlugKhelMahakumbh

var jpeg = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

// newRouter serves the Khel Mahakumbh engine over in-memory storage.
func newRouter(t *testing.T) http.Handler {
	t.Helper()
	engine, err := service.New(schemes.KhelMahakumbh(), storage.NewMemory(),
		service.WithLogger(logger.Discard()),
		service.WithSubmitDelay(0),
		service.WithLocation(time.UTC),
	)
	require.NoError(t, err)
	return handler.New([]handler.Service{engine}, logger.Discard(), nil).Router()
}

func validForm() map[string]any {
	return map[string]any{
		"fullName":          "Asha Rawat",
		"dob":               time.Now().UTC().AddDate(-20, 0, -10).Format("2006-01-02"),
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
		"sport":             []string{"kabaddi"},
	}
}

func register(t *testing.T, router http.Handler, device id.DeviceID) string {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.WithDevice(
		testutil.NewUploadRequest(t, kmk+"/photo", "image/jpeg", jpeg), device))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(router, testutil.WithDevice(
		testutil.NewJSONRequest(t, http.MethodPost, kmk+"/submit", validForm()), device))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	outcome := testutil.UnmarshalResponse[service.Outcome](t, rr)
	require.NotNil(t, outcome.Record)
	return outcome.Record.RegistrationID.String()
}

func TestRegistrationFlow(t *testing.T) {
	router := newRouter(t)
	device := id.NewDeviceID()

	testutil.Given(t, "a complete form with a photo", func(t *testing.T) {
		testutil.Then(t, "submissions are numbered in order", func(t *testing.T) {
			assert.Equal(t, "KMK-UT-2026-000001", register(t, router, device))
			assert.Equal(t, "KMK-UT-2026-000002", register(t, router, device))
		})
		testutil.Then(t, "the admin table lists both", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, kmk+"/admin"))
			testutil.AssertStatus(t, rr, http.StatusOK)
			table := testutil.UnmarshalResponse[admin.Table](t, rr)
			assert.Len(t, table.Rows, 2)
			assert.Equal(t, 2, table.Total)
		})
	})

	testutil.Given(t, "a form without a photo from a new browser", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.WithDevice(
			testutil.NewJSONRequest(t, http.MethodPost, kmk+"/submit", validForm()), id.NewDeviceID()))

		testutil.Then(t, "it is rejected with the photo error only", func(t *testing.T) {
			testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)
			outcome := testutil.UnmarshalResponse[service.Outcome](t, rr)
			require.Len(t, outcome.Errors, 1)
			assert.Equal(t, "photo", outcome.FirstField)
			assert.Equal(t, "Form has 1 error(s). Please review.", outcome.Announcement)
		})
	})

	testutil.Given(t, "an upload that is not an image", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.WithDevice(
			testutil.NewUploadRequest(t, kmk+"/photo", "application/pdf", []byte("%PDF-1.4")), device))

		testutil.Then(t, "it is refused as a validation error", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "validation_error")
		})
	})
}

func TestAdminFlow(t *testing.T) {
	router := newRouter(t)
	device := id.NewDeviceID()
	first := register(t, router, device)
	register(t, router, device)

	testutil.When(t, "deleting without confirmation", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, kmk+"/registrations/"+first))
		testutil.Then(t, "the client is asked to confirm", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusPreconditionRequired, "confirmation_required")
		})
	})

	testutil.When(t, "deleting with confirmation", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, kmk+"/registrations/"+first+"?confirm=true"))
		testutil.Then(t, "the record is removed", func(t *testing.T) {
			testutil.AssertStatus(t, rr, http.StatusOK)
			testutil.AssertJSONContains(t, rr, "removed", true)
		})
	})

	testutil.When(t, "clearing with confirmation", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, kmk+"/registrations?confirm=true"))
		testutil.Then(t, "the remaining record is counted", func(t *testing.T) {
			testutil.AssertStatus(t, rr, http.StatusOK)
			testutil.AssertJSONContains(t, rr, "count", float64(1))
		})
		testutil.And(t, "numbering starts over", func(t *testing.T) {
			assert.Equal(t, "KMK-UT-2026-000001", register(t, router, device))
		})
	})
}
