package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/crime-dashboard/internal/dataset"
	"github.com/crime-dashboard/internal/domain"
)

// MockReportRepository is a mock of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.UnofficialReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UnofficialReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnofficialReport), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, filter domain.ReportListFilter) ([]domain.UnofficialReport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnofficialReport), args.Error(1)
}

func (m *MockReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ReportStatus) (*domain.UnofficialReport, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnofficialReport), args.Error(1)
}

func (m *MockReportRepository) CountByStatus(ctx context.Context) (map[domain.ReportStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ReportStatus]int), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetApprovedReports(ctx context.Context) ([]domain.UnofficialReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnofficialReport), args.Error(1)
}

func (m *MockCacheRepository) SetApprovedReports(ctx context.Context, reports []domain.UnofficialReport, ttl time.Duration) error {
	args := m.Called(ctx, reports, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetModerationSummary(ctx context.Context) (*domain.ModerationSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModerationSummary), args.Error(1)
}

func (m *MockCacheRepository) SetModerationSummary(ctx context.Context, summary *domain.ModerationSummary, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) InvalidateReports(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEventPublisher is a mock of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishReportEvent(ctx context.Context, event domain.ReportEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// fakeLoader отдаёт фиксированный снимок и считает обращения
type fakeLoader struct {
	mu      sync.Mutex
	snap    *dataset.Snapshot
	err     error
	loads   int
	reloads int
}

func (l *fakeLoader) Load(_ context.Context) (*dataset.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	if l.err != nil {
		return nil, l.err
	}
	return l.snap, nil
}

func (l *fakeLoader) Reload(_ context.Context) (*dataset.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reloads++
	if l.err != nil {
		return l.snap, l.err
	}
	return l.snap, nil
}

func testRecords() []domain.DistrictCrimeRecord {
	return []domain.DistrictCrimeRecord{
		{SlNo: 1, District: "Hyderabad", Category: "Property Crime", CrimeType: "Theft", Crimes: 5000, Year: 2021, PercentVariation: 10},
		{SlNo: 2, District: "Hyderabad", Category: "Bodily Crimes", CrimeType: "Murder", Crimes: 100, Year: 2021, PercentVariation: -10},
		{SlNo: 3, District: "Warangal", Category: "Property Crime", CrimeType: "Theft", Crimes: 3000, Year: 2021},
		{SlNo: 4, District: "CID", Category: "Economic Offence", CrimeType: "Fraud", Crimes: 900, Year: 2021},
	}
}

func testSnapshot() *dataset.Snapshot {
	return &dataset.Snapshot{
		Records:  testRecords(),
		Source:   "testdata.csv",
		LoadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
