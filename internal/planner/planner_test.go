package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/acvinq/internal/activity"
	"github.com/roach88/acvinq/internal/store"
	"github.com/roach88/acvinq/internal/testutil"
)

var testEpoch = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.Local)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	clock := testutil.NewDeterministicClock(testEpoch, time.Minute)
	s, err := store.Open(filepath.Join(t.TempDir(), "activities.db"), store.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func today() activity.Day {
	return activity.DayOf(testEpoch)
}

func TestNew_EmptyDayStartsWithFirstQuestion(t *testing.T) {
	s := openStore(t)

	p, err := New(context.Background(), s, today())
	require.NoError(t, err)

	assert.Equal(t, FirstQuestion, p.State())
	prompt := p.Prompt()
	assert.Equal(t, OpenQuestion, prompt.Question)
	assert.Nil(t, prompt.Last)
}

func TestAnswer_AppendsOnce(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, err := New(ctx, s, today())
	require.NoError(t, err)

	accepted, err := p.Answer(ctx, "reading email")
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, Done, p.State())
	require.NotNil(t, p.Saved())

	count, err := s.CountForDay(ctx, today())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	last, err := s.LastForDay(ctx, today())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "reading email", last.Description)
	assert.Equal(t, p.Saved().ID, last.ID)
}

func TestAnswer_EmptyRePrompts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, err := New(ctx, s, today())
	require.NoError(t, err)

	for _, blank := range []string{"", "   ", "\t"} {
		accepted, err := p.Answer(ctx, blank)
		require.NoError(t, err)
		assert.False(t, accepted)
		assert.Equal(t, FirstQuestion, p.State())
	}

	count, err := s.CountForDay(ctx, today())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestContinuation_Yes(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	prev, err := s.Append(ctx, "writing code")
	require.NoError(t, err)

	p, err := New(ctx, s, today())
	require.NoError(t, err)
	require.Equal(t, ContinuationQuestion, p.State())

	prompt := p.Prompt()
	assert.Equal(t, `Are you still doing "writing code"?`, prompt.Question)
	require.NotNil(t, prompt.Last)
	assert.Equal(t, prev.ID, prompt.Last.ID)

	require.NoError(t, p.Confirm(ctx, true))
	assert.Equal(t, Done, p.State())

	saved := p.Saved()
	require.NotNil(t, saved)
	assert.Equal(t, "writing code", saved.Description)
	assert.NotEqual(t, prev.ID, saved.ID)
	assert.True(t, saved.Timestamp.After(prev.Timestamp))

	count, err := s.CountForDay(ctx, today())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestContinuation_NoReturnsToFirstQuestion(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, "writing code")
	require.NoError(t, err)

	p, err := New(ctx, s, today())
	require.NoError(t, err)

	require.NoError(t, p.Confirm(ctx, false))
	assert.Equal(t, FirstQuestion, p.State())
	assert.Nil(t, p.Saved())

	count, err := s.CountForDay(ctx, today())
	require.NoError(t, err)
	assert.Equal(t, 1, count, "no must not append")

	accepted, err := p.Answer(ctx, "code review")
	require.NoError(t, err)
	assert.True(t, accepted)

	last, err := s.LastForDay(ctx, today())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "code review", last.Description)
}

func TestWrongState(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, err := New(ctx, s, today())
	require.NoError(t, err)

	err = p.Confirm(ctx, true)
	assert.ErrorIs(t, err, ErrWrongState)

	_, err = p.Answer(ctx, "done")
	require.NoError(t, err)

	_, err = p.Answer(ctx, "again")
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Equal(t, Prompt{State: Done}, p.Prompt())
}

// fakeStore lets tests inject inconsistencies and failures.
type fakeStore struct {
	count     int
	last      *activity.Record
	appendErr error
	countErr  error
	appended  []string
}

func (f *fakeStore) Append(_ context.Context, desc string) (activity.Record, error) {
	if f.appendErr != nil {
		return activity.Record{}, f.appendErr
	}
	f.appended = append(f.appended, desc)
	return activity.NewRecord(desc, testEpoch)
}

func (f *fakeStore) LastForDay(context.Context, activity.Day) (*activity.Record, error) {
	return f.last, nil
}

func (f *fakeStore) CountForDay(context.Context, activity.Day) (int, error) {
	return f.count, f.countErr
}

func TestNew_InconsistentStoreFallsBack(t *testing.T) {
	fs := &fakeStore{count: 3, last: nil}

	p, err := New(context.Background(), fs, today())
	require.NoError(t, err)
	assert.Equal(t, FirstQuestion, p.State())
}

func TestNew_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("disk gone")
	fs := &fakeStore{countErr: boom}

	_, err := New(context.Background(), fs, today())
	assert.ErrorIs(t, err, boom)
}

func TestAnswer_AppendFailureKeepsState(t *testing.T) {
	boom := errors.New("read-only")
	fs := &fakeStore{appendErr: boom}
	ctx := context.Background()

	p, err := New(ctx, fs, today())
	require.NoError(t, err)

	accepted, err := p.Answer(ctx, "something")
	assert.ErrorIs(t, err, boom)
	assert.False(t, accepted)
	assert.Equal(t, FirstQuestion, p.State())

	fs.appendErr = nil
	accepted, err = p.Answer(ctx, "something")
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, []string{"something"}, fs.appended)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "first_question", FirstQuestion.String())
	assert.Equal(t, "continuation_question", ContinuationQuestion.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "state(0)", State(0).String())
}
