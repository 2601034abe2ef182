package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"regdesk/internal/platform/config"
	"regdesk/internal/platform/logger"
	"regdesk/internal/registration/events"
	"regdesk/internal/registration/handler"
	"regdesk/internal/schemes"
	"regdesk/internal/storage"
)

type AppSuite struct {
	suite.Suite
	ctx  context.Context
	sink *events.MemorySink
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	s.ctx = context.Background()
	s.sink = &events.MemorySink{}
}

func testConfig() config.Server {
	return config.Server{
		Addr:    ":0",
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Events:  config.EventsConfig{Sink: config.SinkNone, BufferSize: 8},
		Engine: config.EngineConfig{
			DraftDebounce: time.Second,
			SubmitDelay:   0,
			Location:      time.UTC,
		},
	}
}

func (s *AppSuite) build(cfg config.Server) *App {
	a, err := New(s.ctx, cfg, logger.Discard(), WithStorage(storage.NewMemory()), WithSink(s.sink))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func (s *AppSuite) TestBuildsEveryBuiltinScheme() {
	a := s.build(testConfig())

	s.Require().Len(a.Engines(), len(schemes.Builtin()))
	for _, slug := range schemes.Slugs() {
		e, ok := a.Engine(slug)
		s.Require().True(ok, slug)
		s.Equal(slug, e.Scheme().Slug.String())
		s.Equal(time.UTC, e.Location())
	}
	_, ok := a.Engine("unknown")
	s.False(ok)
}

func (s *AppSuite) TestRouterListsSchemes() {
	a := s.build(testConfig())

	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/schemes", nil))
	s.Require().Equal(http.StatusOK, rr.Code)

	var body handler.SchemesResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	s.Require().Len(body.Schemes, 4)
	s.Equal(schemes.SlugAdventureTraining, body.Schemes[0].Slug.String())
	s.Equal(schemes.SlugKhelMahakumbh, body.Schemes[3].Slug.String())
}

func (s *AppSuite) TestHealthFollowsReadiness() {
	a := s.build(testConfig())
	router := a.Router()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusServiceUnavailable, rr.Code)

	a.Ready.SetReady(true)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *AppSuite) TestMetricsPage() {
	a := s.build(testConfig())

	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/schemes", nil))
	rr = httptest.NewRecorder()
	a.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "go_goroutines")
}

func (s *AppSuite) TestSchemeOverridesFile() {
	path := filepath.Join(s.T().TempDir(), "schemes.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(`
schemes:
  youth-volunteering:
    disabled: true
  khel-mahakumbh:
    max_age: 55
    title: Khel Mahakumbh 2026
`), 0o600))

	cfg := testConfig()
	cfg.SchemesFile = path
	a := s.build(cfg)

	s.Len(a.Engines(), 3)
	_, ok := a.Engine(schemes.SlugYouthVolunteering)
	s.False(ok)

	kmk, ok := a.Engine(schemes.SlugKhelMahakumbh)
	s.Require().True(ok)
	s.Equal(55, kmk.Scheme().MaxAge)
	s.Equal("Khel Mahakumbh 2026", kmk.Info().Title)
}

func (s *AppSuite) TestUnknownSchemeInOverridesFails() {
	path := filepath.Join(s.T().TempDir(), "schemes.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("schemes:\n  chess-club:\n    disabled: true\n"), 0o600))

	cfg := testConfig()
	cfg.SchemesFile = path
	_, err := New(s.ctx, cfg, logger.Discard(), WithStorage(storage.NewMemory()), WithSink(s.sink))
	s.Error(err)
}

func (s *AppSuite) TestCloseDrainsQueuedEvents() {
	a := s.build(testConfig())

	done := make(chan error, 1)
	go func() { done <- a.RunWorker(s.ctx) }()

	a.Publisher.Publish(s.ctx, events.Event{Type: events.TypeCleared, Scheme: schemes.SlugKhelMahakumbh, Count: 2})
	s.Require().NoError(a.Close(s.ctx))

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.FailNow("worker did not return after Close")
	}
	s.Require().Len(s.sink.Events(), 1)
	s.Equal(events.TypeCleared, s.sink.Events()[0].Type)
}

func TestRunWorkerTwiceFails(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logger.Discard(),
		WithStorage(storage.NewMemory()), WithSink(events.DiscardSink{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = a.RunWorker(ctx) }()
	assert.Eventually(t, a.workerRun.Load, time.Second, 10*time.Millisecond)
	assert.Error(t, a.RunWorker(ctx))
	require.NoError(t, a.Close(context.Background()))
}
