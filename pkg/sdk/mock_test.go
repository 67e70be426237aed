package strindex

import (
	"context"

	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	"github.com/kailas-cloud/strindex/internal/domain/query/nlq"
	domrec "github.com/kailas-cloud/strindex/internal/domain/record"
	healthuc "github.com/kailas-cloud/strindex/internal/usecase/health"
)

// --- recordUseCase mock ---

type mockRecordUC struct {
	createFn func(ctx context.Context, value string) (domrec.Record, error)
	getFn    func(ctx context.Context, value string) (domrec.Record, error)
	listFn   func(ctx context.Context, raw map[string]string) ([]domrec.Record, filter.Set, error)
	searchFn func(ctx context.Context, phrase string) ([]domrec.Record, nlq.Interpreted, error)
	deleteFn func(ctx context.Context, value string) error
}

func (m *mockRecordUC) Create(ctx context.Context, value string) (domrec.Record, error) {
	return m.createFn(ctx, value)
}

func (m *mockRecordUC) Get(ctx context.Context, value string) (domrec.Record, error) {
	return m.getFn(ctx, value)
}

func (m *mockRecordUC) List(ctx context.Context, raw map[string]string) ([]domrec.Record, filter.Set, error) {
	return m.listFn(ctx, raw)
}

func (m *mockRecordUC) Search(ctx context.Context, phrase string) ([]domrec.Record, nlq.Interpreted, error) {
	return m.searchFn(ctx, phrase)
}

func (m *mockRecordUC) Delete(ctx context.Context, value string) error {
	return m.deleteFn(ctx, value)
}

// --- storeUseCase mock ---

type mockStore struct {
	pingErr error
	count   int
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }
func (m *mockStore) Count(_ context.Context) int  { return m.count }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }
