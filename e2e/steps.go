package e2e

import (
	"github.com/cucumber/godog"

	"regdesk/e2e/steps/admin"
	"regdesk/e2e/steps/common"
	"regdesk/e2e/steps/registration"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (background, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register form, draft, photo and submission steps
	registration.RegisterSteps(ctx, tc)

	// Register admin table, export and delete steps
	admin.RegisterSteps(ctx, tc)
}
