package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	if testing.Short() {
		t.Skip("feature suite skipped in short mode")
	}
	format := "progress"
	if v := os.Getenv("GODOG_FORMAT"); v != "" {
		format = v
	}

	suite := godog.TestSuite{
		Name:                "regdesk",
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   format,
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// InitializeScenario registers the steps against one TestContext that every
// scenario restarts.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &TestContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		return c, tc.Start()
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		return c, tc.Close()
	})

	RegisterSteps(ctx, tc)
}
