package cli

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/acvinq/internal/activity"
	"github.com/roach88/acvinq/internal/inquiry"
	"github.com/roach88/acvinq/internal/planner"
	"github.com/roach88/acvinq/internal/store"
)

func (e *testEnv) records(t *testing.T) []activity.Record {
	t.Helper()
	st, err := store.Open(e.dbPath())
	require.NoError(t, err)
	defer st.Close()

	recs, err := st.ListForDay(context.Background(), activity.DayOf(testEpoch))
	require.NoError(t, err)
	return recs
}

func TestInquiry_FirstOfDay(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, code := env.run(t, "writing tests\n", "--inquiry")
	require.Equal(t, ExitSuccess, code)

	assert.Contains(t, stdout, planner.OpenQuestion)
	assert.Contains(t, stdout, inquiry.MsgSaved)

	recs := env.records(t)
	require.Len(t, recs, 1)
	assert.Equal(t, "writing tests", recs[0].Description)
}

func TestInquiry_ContinuationYes(t *testing.T) {
	env := newTestEnv(t)

	_, _, code := env.run(t, "code review\n", "inquiry")
	require.Equal(t, ExitSuccess, code)

	stdout, _, code := env.run(t, "y\n", "inquiry")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, `Are you still doing "code review"?`)
	assert.Contains(t, stdout, inquiry.MsgContinued)

	recs := env.records(t)
	require.Len(t, recs, 2)
	assert.Equal(t, "code review", recs[1].Description)
	assert.True(t, recs[1].Timestamp.After(recs[0].Timestamp))
}

func TestInquiry_ContinuationNoAsksAgain(t *testing.T) {
	env := newTestEnv(t)

	_, _, code := env.run(t, "code review\n", "inquiry")
	require.Equal(t, ExitSuccess, code)

	_, _, code = env.run(t, "n\nlunch\n", "inquiry")
	require.Equal(t, ExitSuccess, code)

	recs := env.records(t)
	require.Len(t, recs, 2)
	assert.Equal(t, "lunch", recs[1].Description)
}

func TestInquiry_DismissedExitsZero(t *testing.T) {
	env := newTestEnv(t)

	_, _, code := env.run(t, "", "inquiry")

	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, env.records(t))
}

func TestInquiry_EmptyAnswersThenDismiss(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, code := env.run(t, "\n   \n", "inquiry")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, inquiry.MsgEmpty)
	assert.Empty(t, env.records(t))
}

func TestInquiry_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	// A directory where the database file should be.
	require.NoError(t, os.MkdirAll(env.dbPath(), 0o755))

	_, stderr, code := env.run(t, "anything\n", "inquiry")

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "failed to open activity store")
}

func TestInquiry_InvalidConfigFallsBackToDefaults(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.configPath(), []byte("theme = \"Neon\"\n"), 0o644))

	_, stderr, code := env.run(t, "reading\n", "inquiry")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "using default config")
	assert.Len(t, env.records(t), 1)
}

func TestInquiry_LogsRoundID(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(inquiry.RoundIDEnv, "round-42")

	_, stderr, code := env.run(t, "reading\n", "inquiry")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "round_id=round-42")
}
