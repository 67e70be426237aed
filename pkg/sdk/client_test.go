package strindex

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	domrec "github.com/kailas-cloud/strindex/internal/domain/record"
	healthuc "github.com/kailas-cloud/strindex/internal/usecase/health"
)

func ptr[T any](v T) *T { return &v }

func TestNew_NegativeMaxRecords(t *testing.T) {
	if _, err := New(WithMaxRecords(-1)); err == nil {
		t.Fatal("expected error for negative max records")
	}
}

func TestClientOptions(t *testing.T) {
	now := func() time.Time { return time.Unix(0, 0) }
	reg := prometheus.NewRegistry()
	logger := slog.Default()

	cfg := &clientConfig{}
	for _, o := range []Option{WithMaxRecords(5), WithClock(now), WithLogger(logger), WithPrometheus(reg)} {
		o.apply(cfg)
	}
	if cfg.maxRecords != 5 {
		t.Errorf("maxRecords = %d", cfg.maxRecords)
	}
	if cfg.now == nil || !cfg.now().Equal(time.Unix(0, 0)) {
		t.Error("clock not applied")
	}
	if cfg.logger != logger || cfg.metricsReg != reg {
		t.Error("observer options not applied")
	}
}

func TestClient_EndToEnd(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c, err := New(WithClock(func() time.Time { return created }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, v := range []string{"racecar", "hello world", "noon", "level up"} {
		if _, err := c.Add(ctx, v); err != nil {
			t.Fatalf("Add(%q): %v", v, err)
		}
	}
	if _, err := c.Add(ctx, "noon"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate: expected ErrAlreadyExists, got %v", err)
	}
	if _, err := c.Add(ctx, ""); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("empty: expected ErrEmptyValue, got %v", err)
	}
	if c.Count(ctx) != 4 {
		t.Errorf("Count() = %d, want 4", c.Count(ctx))
	}

	s, err := c.Get(ctx, "racecar")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !s.Properties.IsPalindrome || s.Properties.Length != 7 || s.ID != s.Properties.SHA256Hash {
		t.Errorf("Get = %+v", s)
	}
	if !s.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v", s.CreatedAt)
	}

	got, err := c.List(ctx, Filter{IsPalindrome: ptr(true), MaxLength: ptr(5)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Value != "noon" {
		t.Errorf("List = %+v", got)
	}

	got, q, err := c.Query(ctx, "strings containing the letter w")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if q.Filter.ContainsCharacter == nil || *q.Filter.ContainsCharacter != 'w' {
		t.Errorf("interpreted filter = %+v", q.Filter)
	}
	if len(got) != 1 || got[0].Value != "hello world" {
		t.Errorf("Query = %+v", got)
	}

	if err := c.Delete(ctx, "noon"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "noon"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: expected ErrNotFound, got %v", err)
	}

	h := c.Health(ctx)
	if h.Status != "ok" || h.Records != 3 {
		t.Errorf("Health = %+v", h)
	}
	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestNew_WithValues(t *testing.T) {
	c, err := New(WithValues("noon", "", "noon", "kayak"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n := c.Count(context.Background()); n != 2 {
		t.Fatalf("Count = %d, want 2", n)
	}
	got, err := c.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got[0].Value != "noon" || got[1].Value != "kayak" {
		t.Errorf("order = %q, %q", got[0].Value, got[1].Value)
	}
}

func TestNew_WithValuesOverCapacity(t *testing.T) {
	_, err := New(WithMaxRecords(1), WithValues("a", "b"))
	if !errors.Is(err, ErrStoreFull) {
		t.Fatalf("expected ErrStoreFull, got %v", err)
	}
}

func TestClient_SQLite(t *testing.T) {
	ctx := context.Background()
	c, err := New(WithSQLite(""), WithValues("racecar", "hello world", "noon"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	got, q, err := c.Query(ctx, "strings containing the letter w")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if q.Filter.ContainsCharacter == nil || *q.Filter.ContainsCharacter != 'w' {
		t.Errorf("interpreted filter = %+v", q.Filter)
	}
	if len(got) != 1 || got[0].Value != "hello world" {
		t.Errorf("Query = %+v", got)
	}
	if err := c.Delete(ctx, "noon"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "noon"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: expected ErrNotFound, got %v", err)
	}
	if h := c.Health(ctx); h.Status != "ok" || h.Records != 2 {
		t.Errorf("Health = %+v", h)
	}
}

func TestClient_FilterErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := New()

	if _, err := c.List(ctx, Filter{MinLength: ptr(-1)}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("negative bound: expected ErrInvalidValue, got %v", err)
	}
	if _, err := c.List(ctx, Filter{MinLength: ptr(9), MaxLength: ptr(3)}); !errors.Is(err, ErrConflictingFilters) {
		t.Errorf("crossed bounds: expected ErrConflictingFilters, got %v", err)
	}
	if _, _, err := c.Query(ctx, "anything at all"); !errors.Is(err, ErrUnparseable) {
		t.Errorf("unrecognized phrase: expected ErrUnparseable, got %v", err)
	}
}

func TestClient_MaxRecords(t *testing.T) {
	ctx := context.Background()
	c, _ := New(WithMaxRecords(1))
	_, _ = c.Add(ctx, "one")
	if _, err := c.Add(ctx, "two"); !errors.Is(err, ErrStoreFull) {
		t.Errorf("expected ErrStoreFull, got %v", err)
	}
	if h := c.Health(ctx); h.Status != "degraded" || h.Checks["capacity"] != "error" {
		t.Errorf("Health = %+v", h)
	}
}

func TestClient_WrapsUseCaseErrors(t *testing.T) {
	boom := errors.New("boom")
	c := &Client{
		store: &mockStore{pingErr: boom},
		recordSvc: &mockRecordUC{
			createFn: func(context.Context, string) (domrec.Record, error) { return domrec.Record{}, boom },
			listFn: func(_ context.Context, raw map[string]string) ([]domrec.Record, filter.Set, error) {
				if raw[filter.FieldContainsCharacter] != "ß" {
					return nil, filter.Set{}, errors.New("unexpected raw filter")
				}
				return nil, filter.Set{}, boom
			},
			deleteFn: func(context.Context, string) error { return boom },
		},
		healthSvc: &mockHealthUC{},
	}
	ctx := context.Background()

	if _, err := c.Add(ctx, "x"); !errors.Is(err, boom) {
		t.Errorf("Add: %v", err)
	}
	if _, err := c.List(ctx, Filter{ContainsCharacter: ptr('ß')}); !errors.Is(err, boom) {
		t.Errorf("List: %v", err)
	}
	if err := c.Delete(ctx, "x"); !errors.Is(err, boom) {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Ping(ctx); !errors.Is(err, boom) {
		t.Errorf("Ping: %v", err)
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Unhealthy,
		Checks: map[string]healthuc.CheckResult{"store": healthuc.CheckError},
	}}}

	h := c.Health(context.Background())
	if h.Status != "error" || h.Checks["store"] != "error" {
		t.Errorf("Health = %+v", h)
	}
}

func TestFilter_Raw(t *testing.T) {
	raw := Filter{IsPalindrome: ptr(false), WordCount: ptr(2)}.raw()
	if len(raw) != 2 || raw[filter.FieldIsPalindrome] != "false" || raw[filter.FieldWordCount] != "2" {
		t.Errorf("raw = %v", raw)
	}
	if len(Filter{}.raw()) != 0 {
		t.Error("empty filter must render no fields")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	// nil observer should not panic.
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("get", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("get", time.Now(), errors.New("fail"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "strindex_sdk_operations_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("strindex_sdk_operations_total not found")
	}
}

func TestClient_ResultSizeMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(WithPrometheus(reg), WithValues("noon", "kayak", "hello"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.List(context.Background(), Filter{IsPalindrome: ptr(true)}); err != nil {
		t.Fatalf("List: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "strindex_sdk_results" {
			continue
		}
		h := f.GetMetric()[0].GetHistogram()
		if h.GetSampleCount() != 1 || h.GetSampleSum() != 2 {
			t.Errorf("results histogram count=%d sum=%f, want 1 and 2", h.GetSampleCount(), h.GetSampleSum())
		}
		return
	}
	t.Error("strindex_sdk_results not found")
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(WithPrometheus(reg)); err != nil {
		t.Fatalf("first New: %v", err)
	}
	if _, err := New(WithPrometheus(reg)); err != nil {
		t.Fatalf("second New on same registry: %v", err)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, statusOK},
		{ErrNotFound, statusNotFound},
		{ErrAlreadyExists, statusConflict},
		{ErrConflictingFilters, statusConflict},
		{ErrEmptyValue, statusRejected},
		{ErrUnparseable, statusRejected},
		{ErrStoreFull, statusCapacity},
		{errors.New("disk on fire"), statusOtherError},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))
}
