// Package shared provides common test helpers used across the gdreport codebase.
//
// # Structure
//
// - testutil: buffered slog handler for asserting on log output, and survey
// fixtures that write realistic Google Form exports into a test directory.
//
// It should NOT contain:
//
// 1. Business logic or domain-specific code
// 2. Circular dependencies with other internal packages
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    path := testutil.WriteSampleSurvey(t, t.TempDir())
//
//	    // exercise code with logger and path
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
