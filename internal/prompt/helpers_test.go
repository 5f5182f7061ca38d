package prompt

import (
	"context"
	"time"

	"github.com/roach88/acvinq/internal/activity"
)

// memStore is an in-memory planner.Store.
type memStore struct {
	records []activity.Record
}

func newMemStore() *memStore { return &memStore{} }

func (m *memStore) Append(_ context.Context, desc string) (activity.Record, error) {
	rec, err := activity.NewRecord(desc, time.Now())
	if err != nil {
		return activity.Record{}, err
	}
	rec.ID = int64(len(m.records) + 1)
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memStore) LastForDay(_ context.Context, day activity.Day) (*activity.Record, error) {
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].Day == day {
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memStore) CountForDay(_ context.Context, day activity.Day) (int, error) {
	n := 0
	for _, r := range m.records {
		if r.Day == day {
			n++
		}
	}
	return n, nil
}
