//go:build unix

package supervisor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// assertProcessGone checks that pid no longer exists: it was killed and
// reaped, so it is not even a zombie.
func assertProcessGone(t *testing.T, pid int) {
	t.Helper()
	if pid == 0 {
		t.Fatal("outcome has no pid")
	}
	err := syscall.Kill(pid, 0)
	assert.True(t, errors.Is(err, syscall.ESRCH), "process %d still exists (kill -0: %v)", pid, err)
}

func TestRunBounded_TimeoutAsksTaskToStopFirst(t *testing.T) {
	defer goleak.VerifyNone(t)

	var stdout bytes.Buffer
	task := helperTask("trap", "30s")
	task.Stdout = &stdout

	sup := New(WithTimeout(time.Second), WithStopGrace(5*time.Second), WithGrace(5*time.Second))
	out := sup.RunBounded(context.Background(), task)

	assert.Equal(t, TimedOut, out.Kind)
	assert.NoError(t, out.Cause)
	assert.Contains(t, stdout.String(), "stopped cleanly")
	assert.Less(t, out.Elapsed, 6*time.Second)
	assertProcessGone(t, out.PID)
}

func TestRunBounded_TaskIgnoringStopIsKilled(t *testing.T) {
	defer goleak.VerifyNone(t)

	const stopGrace = 300 * time.Millisecond

	for _, group := range []bool{false, true} {
		t.Run(fmt.Sprintf("process_group=%v", group), func(t *testing.T) {
			sup := New(
				WithTimeout(500*time.Millisecond),
				WithStopGrace(stopGrace),
				WithGrace(5*time.Second),
				WithProcessGroup(group),
			)
			out := sup.RunBounded(context.Background(), helperTask("ignore", "30s"))

			assert.Equal(t, TimedOut, out.Kind)
			assert.NoError(t, out.Cause, "killed task should be reaped within grace")
			assert.GreaterOrEqual(t, out.Elapsed, 500*time.Millisecond+stopGrace)
			assert.Less(t, out.Elapsed, 10*time.Second)
			assertProcessGone(t, out.PID)
		})
	}
}
