package imports

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body string) error
	GET(path string) error
	StatusCode() int
	GetResponseField(field string) (any, error)
	SetImportID(importID string)
}

// RegisterSteps registers import and report step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &importSteps{tc: tc}

	ctx.Step(`^an import with citizens:$`, steps.importWithCitizens)
	ctx.Step(`^citizen (\d+) should have relatives "([^"]*)"$`, steps.citizenShouldHaveRelatives)
	ctx.Step(`^month (\d+) should list citizen (\d+) with (\d+) presents?$`, steps.monthShouldList)
	ctx.Step(`^town "([^"]*)" should have percentiles "([^"]*)"$`, steps.townShouldHavePercentiles)
}

type importSteps struct {
	tc TestContext
}

// importWithCitizens posts a citizens array and remembers the new import id
// for paths containing {import_id}.
func (s *importSteps) importWithCitizens(ctx context.Context, citizens *godog.DocString) error {
	if err := s.tc.POST("/imports", `{"citizens":`+citizens.Content+`}`); err != nil {
		return err
	}
	if s.tc.StatusCode() != 201 {
		return fmt.Errorf("import failed with status %d", s.tc.StatusCode())
	}
	v, err := s.tc.GetResponseField("data.import_id")
	if err != nil {
		return err
	}
	s.tc.SetImportID(fmt.Sprint(v))
	return nil
}

func (s *importSteps) citizenShouldHaveRelatives(ctx context.Context, citizenID int, want string) error {
	if err := s.tc.GET("/imports/{import_id}/citizens"); err != nil {
		return err
	}
	v, err := s.tc.GetResponseField("data")
	if err != nil {
		return err
	}
	citizens, _ := v.([]any)
	for _, raw := range citizens {
		c, _ := raw.(map[string]any)
		if fmt.Sprint(c["citizen_id"]) != fmt.Sprint(citizenID) {
			continue
		}
		if got := joinIDs(c["relatives"]); got != want {
			return fmt.Errorf("citizen %d: expected relatives %q, got %q", citizenID, want, got)
		}
		return nil
	}
	return fmt.Errorf("citizen %d not found", citizenID)
}

func (s *importSteps) monthShouldList(ctx context.Context, month, citizenID, presents int) error {
	v, err := s.tc.GetResponseField(fmt.Sprintf("data.%d", month))
	if err != nil {
		return err
	}
	entries, _ := v.([]any)
	for _, raw := range entries {
		e, _ := raw.(map[string]any)
		if fmt.Sprint(e["citizen_id"]) == fmt.Sprint(citizenID) {
			if got := fmt.Sprint(e["presents"]); got != fmt.Sprint(presents) {
				return fmt.Errorf("month %d citizen %d: expected %d presents, got %s", month, citizenID, presents, got)
			}
			return nil
		}
	}
	return fmt.Errorf("month %d does not list citizen %d", month, citizenID)
}

// townShouldHavePercentiles expects want as "p50,p75,p99".
func (s *importSteps) townShouldHavePercentiles(ctx context.Context, town, want string) error {
	v, err := s.tc.GetResponseField("data")
	if err != nil {
		return err
	}
	rows, _ := v.([]any)
	for _, raw := range rows {
		row, _ := raw.(map[string]any)
		if row["town"] != town {
			continue
		}
		got := fmt.Sprintf("%v,%v,%v", row["p50"], row["p75"], row["p99"])
		if got != want {
			return fmt.Errorf("town %s: expected %s, got %s", town, want, got)
		}
		return nil
	}
	return fmt.Errorf("town %q not in report", town)
}

func joinIDs(v any) string {
	list, _ := v.([]any)
	parts := make([]string, len(list))
	for i, item := range list {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, ",")
}
