package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/acvinq/internal/testutil"
)

// testDBName is the database file name used inside test temp dirs.
const testDBName = "activities.db"

var testEpoch = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.Local)

// createTestStore creates a new store in a temp directory driven by a
// deterministic clock that advances one second per append.
func createTestStore(t *testing.T) (*Store, *testutil.DeterministicClock) {
	t.Helper()
	clock := testutil.NewDeterministicClock(testEpoch, time.Second)
	path := filepath.Join(t.TempDir(), testDBName)
	s, err := Open(path, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clock
}
