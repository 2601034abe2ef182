package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"regdesk/internal/platform/logger"
	"regdesk/internal/platform/metrics"
	"regdesk/internal/registration/draft"
	"regdesk/internal/registration/events"
	"regdesk/internal/registration/form"
	"regdesk/internal/registration/models"
	"regdesk/internal/storage"
	id "regdesk/pkg/domain"
	dErrors "regdesk/pkg/domain-errors"
	"regdesk/pkg/platform/sentinel"
	"regdesk/pkg/requestcontext"
)

var (
	now        = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
)

// sportsExt requires one to three sports posted as "sport".
type sportsExt struct {
	models.NopExtension
}

var sportsFields = []models.FieldSpec{
	{Key: "sports", Control: "sport", Kind: models.KindMulti, ErrorKey: "sport", Validated: true},
}

func (sportsExt) ExtraFields() []models.FieldSpec { return sportsFields }

func (sportsExt) CollectExtra(v models.FormValues) models.Extra {
	return models.CollectFields(sportsFields, v)
}

func (sportsExt) RestoreExtra(d models.FormData) map[string][]string {
	return models.RestoreFields(sportsFields, d)
}

func (sportsExt) ValidateExtra(d models.FormData) []models.FieldError {
	if len(d.Extra.List("sports")) == 0 {
		return []models.FieldError{{Key: "sport", Message: "Please select at least one sport."}}
	}
	return nil
}

func (sportsExt) BuildRecord(d models.FormData, base models.Record) models.Record {
	models.CopyFields(sportsFields, d, &base)
	return base
}

func testScheme() models.Scheme {
	return models.Scheme{
		Slug:           "khel-mahakumbh",
		Title:          "Khel Mahakumbh",
		StorageKey:     "kmk_registrations",
		DraftKey:       "kmk_form_draft",
		CounterKey:     "kmk_id_counter",
		IDPrefix:       "KMK-UT-2026",
		MinAge:         10,
		MaxAge:         60,
		SuccessMessage: "Registered.",
		Extension:      sportsExt{},
		Locators: models.DefaultLocators().With(models.Locators{
			"sport": models.FieldLocator("sport"),
		}),
	}
}

func validValues() url.Values {
	return url.Values{
		"fullName":          {"  Asha Rawat "},
		"dob":               {"2000-04-12"},
		"gender":            {"female"},
		"mobile":            {"9876543210"},
		"email":             {" asha@example.in "},
		"district":          {"dehradun"},
		"emergencyName":     {"Mohan Rawat"},
		"emergencyPhone":    {"9123456780"},
		"emergencyRelation": {"father"},
		"medicalConditions": {"  "},
		"consentAccuracy":   {"on"},
		"consentMedical":    {"on"},
		"consentRules":      {"on"},
		"consentData":       {"on"},
		"sport":             {"kabaddi", "athletics"},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type fakeTimer struct {
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type EngineSuite struct {
	suite.Suite
	ctx     context.Context
	local   storage.Local
	engine  *Engine
	device  id.DeviceID
	pub     *recordingPublisher
	metrics *metrics.Metrics
	slept   []time.Duration
	timers  []*fakeTimer
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), now)
	s.local = storage.NewMemory()
	s.pub = &recordingPublisher{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.slept = nil
	s.timers = nil
	s.device = id.NewDeviceID()

	engine, err := New(testScheme(), s.local,
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithPublisher(s.pub),
		WithLocation(time.UTC),
		WithSleeper(func(_ context.Context, d time.Duration) error {
			s.slept = append(s.slept, d)
			return nil
		}),
		WithAfterFunc(func(_ time.Duration, f func()) draft.Timer {
			t := &fakeTimer{f: f}
			s.timers = append(s.timers, t)
			return t
		}),
		WithCaptchaSource(func() string { return "ABC234" }),
	)
	s.Require().NoError(err)
	s.engine = engine
}

func (s *EngineSuite) uploadPhoto(device id.DeviceID) {
	_, err := s.engine.UploadPhoto(s.ctx, device, "image/jpeg", jpegHeader)
	s.Require().NoError(err)
}

func (s *EngineSuite) fireTimers() {
	for _, t := range s.timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func (s *EngineSuite) stored() []models.Record {
	records, err := s.engine.Records(s.ctx)
	s.Require().NoError(err)
	return records
}

func (s *EngineSuite) counter() (string, bool) {
	v, ok, err := s.local.Get(s.ctx, "kmk_id_counter")
	s.Require().NoError(err)
	return v, ok
}

// =============================================================================
// Construction
// =============================================================================

func TestNewRejectsInvalidScheme(t *testing.T) {
	scheme := testScheme()
	delete(scheme.Locators, "sport")
	_, err := New(scheme, storage.NewMemory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "sport" has no locator`)

	scheme = testScheme()
	scheme.Extension = nil
	_, err = New(scheme, storage.NewMemory())
	require.Error(t, err)
}

// =============================================================================
// Submission pipeline
// =============================================================================

func (s *EngineSuite) TestSubmitAccepted() {
	s.uploadPhoto(s.device)
	s.Require().NoError(s.engine.drafts.Save(s.ctx, s.device, models.FormData{FullName: "Asha"}))

	out, err := s.engine.Submit(s.ctx, s.device, form.FromURLValues(validValues()))
	s.Require().NoError(err)

	s.Equal(StateAccepted, out.State)
	s.Equal(StateAccepted, s.engine.State(s.device))
	s.Require().NotNil(out.Record)
	r := *out.Record
	s.Equal(id.RegistrationID("KMK-UT-2026-000001"), r.RegistrationID)
	s.Equal("Registration successful! ID: KMK-UT-2026-000001", out.Announcement)
	s.Equal("Registered.", out.SuccessMessage)
	s.NotEmpty(out.SuccessRows)

	s.Equal("Asha Rawat", r.FullName, "name is trimmed")
	s.Equal("asha@example.in", r.Email)
	s.Equal("", r.MedicalConditions)
	s.Require().NotNil(r.Age)
	s.Equal(26, *r.Age)
	s.Equal(models.StatusPending, r.Status)
	s.True(r.RegisteredAt.Equal(now))
	s.Equal([]string{"kabaddi", "athletics"}, r.Extra.List("sports"))
	s.Contains(r.PhotoData, "data:image/jpeg;base64,")
	s.True(r.ConsentData)

	s.Equal([]time.Duration{DefaultSubmitDelay}, s.slept, "every submission waits the fixed delay")

	s.Run("record is stored", func() {
		records := s.stored()
		s.Require().Len(records, 1)
		s.Equal(r.RegistrationID, records[0].RegistrationID)
	})

	s.Run("draft and photo are cleared", func() {
		_, ok, err := s.engine.drafts.Get(s.ctx, s.device)
		s.Require().NoError(err)
		s.False(ok)
		s.False(s.engine.photos.Has(s.engine.scheme.Slug, s.device))
	})

	s.Run("event is published", func() {
		evs := s.pub.all()
		s.Require().Len(evs, 1)
		s.Equal(events.TypeAccepted, evs[0].Type)
		s.Equal("KMK-UT-2026-000001", evs[0].RegistrationID)
	})

	s.Run("second submission gets the next id", func() {
		s.uploadPhoto(s.device)
		out, err := s.engine.Submit(s.ctx, s.device, form.FromURLValues(validValues()))
		s.Require().NoError(err)
		s.Equal(id.RegistrationID("KMK-UT-2026-000002"), out.Record.RegistrationID)
	})

	s.Equal(2.0, promtest.ToFloat64(s.metrics.Submissions.WithLabelValues("khel-mahakumbh", "accepted")))
}

func (s *EngineSuite) TestSubmitRecoversCorruptCounter() {
	first := s.submitValid()
	s.Require().NoError(s.local.Set(s.ctx, "kmk_id_counter", "abc"))

	second := s.submitValid()
	s.Equal(id.RegistrationID("KMK-UT-2026-000001"), first)
	s.Equal(id.RegistrationID("KMK-UT-2026-000002"), second)

	v, ok := s.counter()
	s.True(ok)
	s.Equal("2", v)
}

func (s *EngineSuite) TestSubmitRejected() {
	for _, field := range []string{"fullName", "dob", "gender", "mobile", "district", "emergencyName", "emergencyPhone", "emergencyRelation", "consentRules", "sport"} {
		s.Run("missing "+field, func() {
			s.uploadPhoto(s.device)
			values := validValues()
			values.Del(field)

			out, err := s.engine.Submit(s.ctx, s.device, form.FromURLValues(values))
			s.Require().NoError(err)

			s.Equal(StateRejected, out.State)
			s.Equal(StateRejected, s.engine.State(s.device))
			s.Require().Len(out.Errors, 1)
			s.Equal(field, out.FirstField)
			s.Require().NotNil(out.Focus)
			s.Equal(s.engine.scheme.Locators[field], *out.Focus)
			s.Equal("Form has 1 error(s). Please review.", out.Announcement)
			s.Nil(out.Record)

			s.Empty(s.stored(), "nothing is stored")
			_, ok := s.counter()
			s.False(ok, "counter is untouched")
		})
	}

	s.Run("missing photo", func() {
		s.engine.RemovePhoto(s.ctx, s.device)
		out, err := s.engine.Submit(s.ctx, s.device, form.FromURLValues(validValues()))
		s.Require().NoError(err)
		s.Equal("photo", out.FirstField)
	})

	s.Run("empty form lists base errors then extension errors", func() {
		out, err := s.engine.Submit(s.ctx, id.NewDeviceID(), form.FromURLValues(url.Values{}))
		s.Require().NoError(err)
		s.Require().Len(out.Errors, 14)
		s.Equal("fullName", out.Errors[0].Key)
		s.Equal("sport", out.Errors[len(out.Errors)-1].Key)
		s.Equal("Form has 14 error(s). Please review.", out.Announcement)
	})

	s.Run("resubmitting after rejection can be accepted", func() {
		s.uploadPhoto(s.device)
		out, err := s.engine.Submit(s.ctx, s.device, form.FromURLValues(validValues()))
		s.Require().NoError(err)
		s.True(out.Accepted())
		s.Equal(id.RegistrationID("KMK-UT-2026-000001"), out.Record.RegistrationID)
	})
}

func (s *EngineSuite) TestSubmitOutOfRangeAge() {
	s.uploadPhoto(s.device)
	values := validValues()
	values.Set("dob", "2020-01-01")

	out, err := s.engine.Submit(s.ctx, s.device, form.FromURLValues(values))
	s.Require().NoError(err)
	s.Require().Len(out.Errors, 1)
	s.Equal(models.FieldError{Key: "dob", Message: "Minimum age is 10 years."}, out.Errors[0])
}

func TestSubmitWhileBusy(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	engine, err := New(testScheme(), storage.NewMemory(),
		WithLogger(logger.Discard()),
		WithSleeper(func(ctx context.Context, _ time.Duration) error {
			close(entered)
			<-release
			return nil
		}),
	)
	require.NoError(t, err)
	device := id.NewDeviceID()
	ctx := context.Background()

	done := make(chan Outcome)
	go func() {
		out, _ := engine.Submit(ctx, device, form.FromURLValues(url.Values{}))
		done <- out
	}()
	<-entered
	assert.Equal(t, StateSubmitting, engine.State(device))

	_, err = engine.Submit(ctx, device, form.FromURLValues(url.Values{}))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	close(release)
	out := <-done
	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, StateRejected, engine.State(device))
}

func TestSubmitInterruptedWait(t *testing.T) {
	engine, err := New(testScheme(), storage.NewMemory(),
		WithLogger(logger.Discard()),
		WithSubmitDelay(time.Hour),
	)
	require.NoError(t, err)
	device := id.NewDeviceID()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = engine.Submit(ctx, device, form.FromURLValues(validValues()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	assert.Equal(t, StateEditing, engine.State(device), "an interrupted submission re-enables the form")
}

func TestConcurrentSubmissionsGetDistinctIDs(t *testing.T) {
	engine, err := New(testScheme(), storage.NewMemory(),
		WithLogger(logger.Discard()),
		WithSubmitDelay(0),
	)
	require.NoError(t, err)
	ctx := requestcontext.WithTime(context.Background(), now)

	const n = 20
	var wg sync.WaitGroup
	ids := make(chan id.RegistrationID, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			device := id.NewDeviceID()
			_, err := engine.UploadPhoto(ctx, device, "image/jpeg", jpegHeader)
			if err != nil {
				return
			}
			out, err := engine.Submit(ctx, device, form.FromURLValues(validValues()))
			if err == nil && out.Accepted() {
				ids <- out.Record.RegistrationID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[id.RegistrationID]bool{}
	for regID := range ids {
		assert.False(t, seen[regID], "duplicate id %s", regID)
		seen[regID] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, seen[id.RegistrationID(fmt.Sprintf("KMK-UT-2026-%06d", n))])
}

// =============================================================================
// Drafts, photos and live validation
// =============================================================================

func (s *EngineSuite) TestInputDebouncesDraft() {
	values := validValues()
	progress := s.engine.Input(s.ctx, s.device, form.FromURLValues(values))
	s.Equal(90, progress.Progress, "everything but the photo")

	values.Set("fullName", "Asha R")
	s.engine.Input(s.ctx, s.device, form.FromURLValues(values))

	page, err := s.engine.Page(s.ctx, s.device)
	s.Require().NoError(err)
	s.False(page.DraftOffered, "nothing is saved before the quiet period")

	s.fireTimers()

	page, err = s.engine.Page(s.ctx, s.device)
	s.Require().NoError(err)
	s.True(page.DraftOffered)
	s.Equal("ABC234", page.Captcha)
	s.Equal("2026-10-19", page.MaxDOB)
	s.Equal(StateEditing, page.State)

	restored, err := s.engine.RestoreDraft(s.ctx, s.device)
	s.Require().NoError(err)
	s.Equal([]string{"Asha R"}, restored.Values["fullName"])
	s.Equal([]string{"kabaddi", "athletics"}, restored.Values["sport"])
	s.Equal([]string{"true"}, restored.Values["consentData"])
	s.Equal("Draft restored!", restored.Message)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.DraftsSaved.WithLabelValues("khel-mahakumbh", TriggerDebounce)))
}

func (s *EngineSuite) TestDraftRoundTrip() {
	values := validValues()
	_, err := s.engine.SaveDraft(s.ctx, s.device, form.FromURLValues(values))
	s.Require().NoError(err)

	restored, err := s.engine.RestoreDraft(s.ctx, s.device)
	s.Require().NoError(err)

	before := form.Collect(form.FromURLValues(values), sportsExt{})
	after := form.Collect(form.FromURLValues(url.Values(restored.Values)), sportsExt{})
	s.Equal(before.FullName, after.FullName)
	s.Equal(before.Mobile, after.Mobile)
	s.Equal(before.AllConsents(), after.AllConsents())
	s.ElementsMatch(before.Extra.List("sports"), after.Extra.List("sports"))
}

func (s *EngineSuite) TestSaveDraftCancelsPendingSave() {
	values := validValues()
	s.engine.Input(s.ctx, s.device, form.FromURLValues(values))

	notice, err := s.engine.SaveDraft(s.ctx, s.device, form.FromURLValues(values))
	s.Require().NoError(err)
	s.Equal("Draft saved!", notice.Message)
	s.True(s.timers[0].stopped)
}

func (s *EngineSuite) TestDiscardDraft() {
	_, err := s.engine.SaveDraft(s.ctx, s.device, form.FromURLValues(validValues()))
	s.Require().NoError(err)
	s.uploadPhoto(s.device)

	notice, err := s.engine.DiscardDraft(s.ctx, s.device)
	s.Require().NoError(err)
	s.Equal("Draft discarded.", notice.Message)

	_, err = s.engine.RestoreDraft(s.ctx, s.device)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	page, err := s.engine.Page(s.ctx, s.device)
	s.Require().NoError(err)
	s.False(page.HasPhoto)
}

func (s *EngineSuite) TestFlushWritesPendingDrafts() {
	s.engine.Input(s.ctx, s.device, form.FromURLValues(validValues()))
	s.Require().NoError(s.engine.Flush(s.ctx))

	page, err := s.engine.Page(s.ctx, s.device)
	s.Require().NoError(err)
	s.True(page.DraftOffered)
}

func (s *EngineSuite) TestUploadPhoto() {
	_, err := s.engine.UploadPhoto(s.ctx, s.device, "image/gif", []byte("GIF89a"))
	s.Require().Error(err)
	s.Equal("Only JPEG and PNG accepted.", dErrors.MessageOf(err))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.PhotosRejected.WithLabelValues("khel-mahakumbh", "type")))

	notice, err := s.engine.UploadPhoto(s.ctx, s.device, "image/jpeg", jpegHeader)
	s.Require().NoError(err)
	s.Equal("Photo uploaded!", notice.Message)

	page, err := s.engine.Page(s.ctx, s.device)
	s.Require().NoError(err)
	s.True(page.HasPhoto)
	s.Equal(10, page.Progress, "one checkpoint of ten")
}

func (s *EngineSuite) TestValidateField() {
	check, err := s.engine.ValidateField(s.ctx, "mobile", "1234567890")
	s.Require().NoError(err)
	s.False(check.Valid)
	s.Equal("Enter a valid 10-digit mobile number.", check.Message)
	s.Equal("regMobile-err", check.Locator.Error)

	check, err = s.engine.ValidateField(s.ctx, "email", "")
	s.Require().NoError(err)
	s.True(check.Valid)

	_, err = s.engine.ValidateField(s.ctx, "favouriteColour", "blue")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *EngineSuite) TestAge() {
	badge := s.engine.Age(s.ctx, "2011-06-01")
	s.Require().NotNil(badge.Age)
	s.Equal(15, *badge.Age)
	s.Equal("15 yrs", badge.Label)
	s.Equal("Junior", badge.Category)
	s.Equal("junior", badge.Badge)

	badge = s.engine.Age(s.ctx, "")
	s.Nil(badge.Age)
	s.Equal("—", badge.Label)
	s.Equal("", badge.Category)
}

func TestDatesFollowConfiguredLocation(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*60*60+30*60)
	engine, err := New(testScheme(), storage.NewMemory(),
		WithLogger(logger.Discard()),
		WithLocation(kolkata),
	)
	require.NoError(t, err)

	// 20:00 UTC on the 9th is already the 10th in Kolkata.
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, time.January, 9, 20, 0, 0, 0, time.UTC))

	page, err := engine.Page(ctx, id.NewDeviceID())
	require.NoError(t, err)
	assert.Equal(t, "2026-01-10", page.MaxDOB)

	badge := engine.Age(ctx, "2008-01-10")
	require.NotNil(t, badge.Age)
	assert.Equal(t, 18, *badge.Age, "birthday counts on the portal's date")

	check, err := engine.ValidateField(ctx, "dob", "2016-01-10")
	require.NoError(t, err)
	assert.True(t, check.Valid, "turns 10 today in the portal's zone: %s", check.Message)
}

// =============================================================================
// Admin
// =============================================================================

func (s *EngineSuite) submitValid() id.RegistrationID {
	device := id.NewDeviceID()
	s.uploadPhoto(device)
	out, err := s.engine.Submit(s.ctx, device, form.FromURLValues(validValues()))
	s.Require().NoError(err)
	s.Require().True(out.Accepted())
	return out.Record.RegistrationID
}

func (s *EngineSuite) TestAdminAndExport() {
	x, err := s.engine.Export(s.ctx, "csv")
	s.Require().NoError(err)
	s.True(x.Empty())
	s.Equal("No records to export.", x.Message)

	s.submitValid()
	s.submitValid()

	table, err := s.engine.Admin(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, table.Total)
	s.Equal(2, table.Today)

	x, err = s.engine.Export(s.ctx, "csv")
	s.Require().NoError(err)
	s.Equal(2, x.Count)
	s.Equal(fmt.Sprintf("KMK-UT-2026_%d.csv", now.UnixMilli()), x.Filename)
	s.Equal("Exported 2 record(s).", x.Message)
	s.Contains(string(x.Body), `"KMK-UT-2026-000002"`)

	x, err = s.engine.Export(s.ctx, "xlsx")
	s.Require().NoError(err)
	s.NotEmpty(x.Body)

	_, err = s.engine.Export(s.ctx, "pdf")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *EngineSuite) TestDelete() {
	first := s.submitValid()
	s.submitValid()

	_, err := s.engine.Delete(s.ctx, first, false)
	s.True(dErrors.HasCode(err, dErrors.CodeConfirmationRequired))
	s.Len(s.stored(), 2)

	res, err := s.engine.Delete(s.ctx, "KMK-UT-2026-000099", true)
	s.Require().NoError(err)
	s.False(res.Removed)
	s.Len(s.stored(), 2)

	res, err = s.engine.Delete(s.ctx, first, true)
	s.Require().NoError(err)
	s.True(res.Removed)
	s.Equal("KMK-UT-2026-000001 deleted.", res.Message)
	s.Len(s.stored(), 1)

	s.Equal(id.RegistrationID("KMK-UT-2026-000003"), s.submitValid(), "ids are never reused")
}

func (s *EngineSuite) TestClear() {
	res, err := s.engine.Clear(s.ctx, false)
	s.Require().NoError(err)
	s.Equal("No records to clear.", res.Message)

	s.submitValid()
	_, err = s.engine.Clear(s.ctx, false)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConfirmationRequired))
	s.Equal("Permanently delete all 1 record(s)?", dErrors.MessageOf(err))

	res, err = s.engine.Clear(s.ctx, true)
	s.Require().NoError(err)
	s.Equal(1, res.Count)
	s.Equal("All records cleared.", res.Message)
	s.Empty(s.stored())

	s.Equal(id.RegistrationID("KMK-UT-2026-000001"), s.submitValid(), "numbering restarts")

	var cleared int
	for _, e := range s.pub.all() {
		if e.Type == events.TypeCleared {
			cleared++
		}
	}
	s.Equal(1, cleared)
}

func (s *EngineSuite) TestReceipt() {
	regID := s.submitValid()

	receipt, err := s.engine.Receipt(s.ctx, regID)
	s.Require().NoError(err)
	s.Equal(regID, receipt.Record.RegistrationID)
	s.Equal("Registration ID", receipt.Rows[0].Label)

	_, err = s.engine.Receipt(s.ctx, "KMK-UT-2026-000404")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
