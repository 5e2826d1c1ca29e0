package search

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain checks that SearchAll releases its worker pools.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// ants starts its package-level default pool at init.
		goleak.IgnoreCurrent(),
	)
}
