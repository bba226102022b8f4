package testutil

import "testing"

// Given, When and Then nest scenario steps as subtests so a failure reads as
// the path through the scenario.
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

// And continues the previous step.
func And(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("And "+desc, fn)
}
