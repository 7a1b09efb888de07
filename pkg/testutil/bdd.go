package testutil

import "testing"

// Given, When, Then and And name nested subtests so a failing step reads as a
// sentence in go test output, without pulling in a BDD framework. The godog
// suite under e2e/ covers the live-server scenarios.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}

func And(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("And "+desc, fn)
}
