// Package e2e drives a fully wired registration server over HTTP with godog
// feature files.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"regdesk/internal/app"
	"regdesk/internal/platform/config"
	"regdesk/internal/platform/logger"
	"regdesk/internal/registration/events"
	"regdesk/internal/storage"
)

// TestContext holds the current scenario's server, client and last response.
// One value lives for the whole run; Start resets it per scenario.
type TestContext struct {
	app    *app.App
	server *httptest.Server
	client *http.Client
	sink   *events.MemorySink
	cancel context.CancelFunc

	scheme     string
	form       map[string]interface{}
	memory     map[string]string
	lastStatus int
	lastBody   []byte
	lastHeader http.Header
}

// Start boots a fresh in-memory server and forgets everything from the
// previous scenario.
func (tc *TestContext) Start() error {
	cfg := config.Server{
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Events:  config.EventsConfig{Sink: config.SinkNone, BufferSize: 64},
		Engine: config.EngineConfig{
			DraftDebounce: 50 * time.Millisecond,
			SubmitDelay:   0,
			Location:      time.UTC,
		},
	}
	sink := &events.MemorySink{}
	a, err := app.New(context.Background(), cfg, logger.Discard(),
		app.WithStorage(storage.NewMemory()),
		app.WithSink(sink),
	)
	if err != nil {
		return err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = a.RunWorker(ctx) }()
	a.Ready.SetReady(true)

	tc.app = a
	tc.sink = sink
	tc.cancel = cancel
	tc.server = httptest.NewServer(a.Router())
	tc.client = &http.Client{Jar: jar, Timeout: 10 * time.Second}
	tc.scheme = ""
	tc.form = map[string]interface{}{}
	tc.memory = make(map[string]string)
	tc.lastStatus, tc.lastBody, tc.lastHeader = 0, nil, nil
	return nil
}

// Close stops the server and releases the app.
func (tc *TestContext) Close() error {
	if tc.server == nil {
		return nil
	}
	tc.server.Close()
	tc.server = nil
	defer tc.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return tc.app.Close(ctx)
}

// Form is the scenario's form under construction, keyed by control name.
func (tc *TestContext) Form() map[string]interface{} {
	return tc.form
}

// ResetForm replaces the form under construction.
func (tc *TestContext) ResetForm(values map[string]interface{}) {
	tc.form = values
}

// UseScheme selects the scheme later requests are sent to.
func (tc *TestContext) UseScheme(slug string) {
	tc.scheme = slug
}

// Scheme returns the selected scheme slug.
func (tc *TestContext) Scheme() string {
	return tc.scheme
}

// SchemePath prefixes suffix with the selected scheme's route.
func (tc *TestContext) SchemePath(suffix string) string {
	return "/schemes/" + tc.scheme + suffix
}

// ForgetDevice drops the device cookie so the next request looks like a new
// browser.
func (tc *TestContext) ForgetDevice() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	tc.client.Jar = jar
	return nil
}

// POST sends body as JSON.
func (tc *TestContext) POST(path string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tc.do(http.MethodPost, path, bytes.NewReader(data), map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	})
}

// POSTFile uploads data as the multipart "photo" part.
func (tc *TestContext) POSTFile(path, filename, contentType string, data []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return tc.do(http.MethodPost, path, &buf, map[string]string{
		"Content-Type": w.FormDataContentType(),
		"Accept":       "application/json",
	})
}

// GET sends a GET request with optional headers.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	if headers == nil {
		headers = map[string]string{"Accept": "application/json"}
	}
	return tc.do(http.MethodGet, path, nil, headers)
}

// DELETE sends a DELETE request.
func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil, map[string]string{"Accept": "application/json"})
}

func (tc *TestContext) do(method, path string, body io.Reader, headers map[string]string) error {
	req, err := http.NewRequest(method, tc.server.URL+path, body)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = data
	tc.lastHeader = resp.Header
	return nil
}

// GetLastResponseStatus returns the status of the last response.
func (tc *TestContext) GetLastResponseStatus() int {
	return tc.lastStatus
}

// GetLastResponseBody returns the body of the last response.
func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.lastBody
}

// GetLastResponseHeader returns a header of the last response.
func (tc *TestContext) GetLastResponseHeader(name string) string {
	return tc.lastHeader.Get(name)
}

// GetResponseField resolves a dotted path such as "record.registrationId" or
// "errors.0.key" in the last JSON response.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var doc interface{}
	if err := json.Unmarshal(tc.lastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	cur := doc
	for _, part := range strings.Split(field, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response", field)
			}
			cur = v
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, field)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("field %q not found in response", field)
		}
	}
	return cur, nil
}

// ResponseContains reports whether the dotted field exists.
func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}

// DeliveredEvents returns what the event worker has delivered so far.
func (tc *TestContext) DeliveredEvents() []events.Event {
	return tc.sink.Events()
}

// Remember stores a value for later steps of the same scenario.
func (tc *TestContext) Remember(key, value string) {
	tc.memory[key] = value
}

// Recall returns a remembered value.
func (tc *TestContext) Recall(key string) string {
	return tc.memory[key]
}
