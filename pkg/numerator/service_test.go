package numerator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences: one counter per key.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	lastKey  string
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, _ := args[0].(string)
	m.lastKey = key

	if strings.Contains(sql, "current_val = $2") {
		// SetNextValue overwrite form
		val, _ := args[1].(int64)
		m.counters[key] = val
	} else {
		m.counters[key]++
	}
	return &mockRow{val: m.counters[key]}
}

func TestNextNumber_SameDaySequence(t *testing.T) {
	q := newMockQuerier()
	svc := NewStatic(q)
	ctx := context.Background()
	cfg := DefaultConfig("INV")
	day := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	num, err := svc.NextNumber(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-20260315-0001" {
		t.Errorf("expected INV-20260315-0001, got %s", num)
	}

	num, err = svc.NextNumber(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-20260315-0002" {
		t.Errorf("expected INV-20260315-0002, got %s", num)
	}

	if q.lastKey != "INV_counter_20260315" {
		t.Errorf("unexpected sequence key: %s", q.lastKey)
	}
}

func TestNextNumber_DayReset(t *testing.T) {
	q := newMockQuerier()
	svc := NewStatic(q)
	ctx := context.Background()
	cfg := DefaultConfig("INV")

	day1 := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 16, 0, 1, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := svc.NextNumber(ctx, cfg, day1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// New day starts back at 1; the old day's counter stays allocated.
	num, err := svc.NextNumber(ctx, cfg, day2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-20260316-0001" {
		t.Errorf("expected INV-20260316-0001, got %s", num)
	}
	if q.counters["INV_counter_20260315"] != 3 {
		t.Errorf("old day counter changed: %d", q.counters["INV_counter_20260315"])
	}
}

func TestNextNumber_PrefixesAreIndependent(t *testing.T) {
	q := newMockQuerier()
	svc := NewStatic(q)
	ctx := context.Background()
	day := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	if _, err := svc.NextNumber(ctx, DefaultConfig("INV"), day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	num, err := svc.NextNumber(ctx, DefaultConfig("PUR"), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PUR-20260315-0001" {
		t.Errorf("expected PUR-20260315-0001, got %s", num)
	}
}

func TestSetNextValue(t *testing.T) {
	q := newMockQuerier()
	svc := NewStatic(q)
	ctx := context.Background()
	cfg := DefaultConfig("INV")
	day := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	if err := svc.SetNextValue(ctx, cfg, day, 41); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	num, err := svc.NextNumber(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-20260315-0042" {
		t.Errorf("expected INV-20260315-0042, got %s", num)
	}
}

func TestParseNumber(t *testing.T) {
	if got := ParseNumber("INV-20260315-0042"); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := ParseNumber("garbage"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}
