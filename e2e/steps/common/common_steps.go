package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body string) error
	PATCH(path string, body string) error
	GET(path string) error
	StatusCode() int
	Body() []byte
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers request and assertion steps shared by every feature
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the census service is running$`, steps.serviceIsRunning)
	ctx.Step(`^I POST to "([^"]*)" with body:$`, steps.postWithBody)
	ctx.Step(`^I PATCH "([^"]*)" with body:$`, steps.patchWithBody)
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.fieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items$`, steps.fieldShouldHaveItems)
	ctx.Step(`^the error code should be "([^"]*)"$`, steps.errorCodeShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serviceIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/healthz"); err != nil {
		return err
	}
	return s.statusShouldBe(ctx, 200)
}

func (s *commonSteps) postWithBody(ctx context.Context, path string, body *godog.DocString) error {
	return s.tc.POST(path, body.Content)
}

func (s *commonSteps) patchWithBody(ctx context.Context, path string, body *godog.DocString) error {
	return s.tc.PATCH(path, body.Content)
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.StatusCode(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.Body())
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

func (s *commonSteps) fieldShouldHaveItems(ctx context.Context, field string, want int) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("expected %s to be a list, got %T", field, v)
	}
	if len(items) != want {
		return fmt.Errorf("expected %s to have %d items, got %d", field, want, len(items))
	}
	return nil
}

func (s *commonSteps) errorCodeShouldBe(ctx context.Context, want string) error {
	return s.fieldShouldEqual(ctx, "error", want)
}
