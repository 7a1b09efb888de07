package e2e

import (
	"github.com/cucumber/godog"

	"census/e2e/steps/common"
	"census/e2e/steps/imports"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and response assertions
	common.RegisterSteps(ctx, tc)

	// Import, relatives and report steps
	imports.RegisterSteps(ctx, tc)
}
