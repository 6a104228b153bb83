package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	b, ok := m.data[key]
	return b, ok, nil
}

func TestReportCache_PutGet(t *testing.T) {
	st := newMemStore()
	c := &ReportCache{store: st, ttl: time.Hour}
	ctx := context.Background()

	if _, ok := c.GetReport(ctx, "r1"); ok {
		t.Fatalf("empty cache should miss")
	}
	c.PutReport(ctx, "r1", []byte(`{"id":"r1"}`))
	b, ok := c.GetReport(ctx, "r1")
	if !ok || string(b) != `{"id":"r1"}` {
		t.Fatalf("GetReport = %q, %v", b, ok)
	}
	if st.ttls[reportKeyPrefix+"r1"] != time.Hour {
		t.Fatalf("ttl not passed through: %v", st.ttls)
	}
}

func TestReportCache_ErrorsAreMisses(t *testing.T) {
	st := newMemStore()
	st.getErr = errors.New("conn reset")
	st.setErr = errors.New("conn reset")
	c := &ReportCache{store: st, ttl: time.Minute}

	c.PutReport(context.Background(), "r1", []byte("x")) // must not panic
	if _, ok := c.GetReport(context.Background(), "r1"); ok {
		t.Fatalf("get error must be a miss")
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := NewRedisClient(ctx, "127.0.0.1:1", "", 0); err == nil {
		t.Fatalf("expected connection error for closed port")
	}
}
