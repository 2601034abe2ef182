package common

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	UseScheme(slug string)
	SchemePath(suffix string) string
	ForgetDevice() error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	ResponseContains(field string) bool
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetLastResponseHeader(name string) string
}

// RegisterSteps registers background, request and generic assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Background
	ctx.Step(`^the "([^"]*)" scheme$`, steps.useScheme)
	ctx.Step(`^I come back from another browser$`, steps.forgetDevice)

	// Requests
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I open the form$`, steps.openForm)

	// Assertions
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.fieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should be (true|false)$`, steps.fieldShouldBeBool)
	ctx.Step(`^the response field "([^"]*)" should be (\d+)$`, steps.fieldShouldBeNumber)
	ctx.Step(`^the response field "([^"]*)" should match "([^"]*)"$`, steps.fieldShouldMatch)
	ctx.Step(`^the response should contain "([^"]*)"$`, steps.responseShouldContainField)
	ctx.Step(`^the response should not contain "([^"]*)"$`, steps.responseShouldNotContainField)
	ctx.Step(`^the response body should contain "([^"]*)"$`, steps.bodyShouldContain)
	ctx.Step(`^the response header "([^"]*)" should contain "([^"]*)"$`, steps.headerShouldContain)
	ctx.Step(`^the error should be "([^"]*)"$`, steps.errorShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) useScheme(ctx context.Context, slug string) error {
	s.tc.UseScheme(slug)
	return nil
}

func (s *commonSteps) forgetDevice(ctx context.Context) error {
	return s.tc.ForgetDevice()
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) openForm(ctx context.Context) error {
	return s.tc.GET(s.tc.SchemePath("/"), nil)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.GetLastResponseStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("expected %s to be %q, got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeBool(ctx context.Context, field, want string) error {
	return s.fieldShouldEqual(ctx, field, want)
}

func (s *commonSteps) fieldShouldBeNumber(ctx context.Context, field string, want int) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	n, ok := v.(float64)
	if !ok {
		return fmt.Errorf("expected %s to be a number, got %T", field, v)
	}
	if int(n) != want {
		return fmt.Errorf("expected %s to be %d, got %v", field, want, n)
	}
	return nil
}

func (s *commonSteps) fieldShouldMatch(ctx context.Context, field, pattern string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	return MatchString(pattern, fmt.Sprint(v))
}

func (s *commonSteps) responseShouldContainField(ctx context.Context, field string) error {
	if !s.tc.ResponseContains(field) {
		return fmt.Errorf("response does not contain %s: %s", field, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseShouldNotContainField(ctx context.Context, field string) error {
	if s.tc.ResponseContains(field) {
		return fmt.Errorf("response unexpectedly contains %s", field)
	}
	return nil
}

func (s *commonSteps) bodyShouldContain(ctx context.Context, text string) error {
	if !strings.Contains(string(s.tc.GetLastResponseBody()), text) {
		return fmt.Errorf("response body does not contain %q: %s", text, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) headerShouldContain(ctx context.Context, name, text string) error {
	if got := s.tc.GetLastResponseHeader(name); !strings.Contains(got, text) {
		return fmt.Errorf("expected header %s to contain %q, got %q", name, text, got)
	}
	return nil
}

func (s *commonSteps) errorShouldBe(ctx context.Context, code string) error {
	return s.fieldShouldEqual(ctx, "error", code)
}

// MatchString fails unless value matches pattern.
func MatchString(pattern, value string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if !re.MatchString(value) {
		return fmt.Errorf("%q does not match %q", value, pattern)
	}
	return nil
}
