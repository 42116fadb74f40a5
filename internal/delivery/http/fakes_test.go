package http_test

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/domain/repository"
)

const testCSV = `Sl. No.,Units,Population (in Lakhs),Crime Rate 2021,Category,Crime Type,Crimes,Year,% Variation in 2021 over 2020
1,Hyderabad,44.5,120.1,Property Crime,Theft,5000,2021,10
2,Hyderabad,44.5,120.1,Bodily Crimes,Murder,100,2021,-10
3,Warangal,12.0,80.0,Property Crime,Theft,3000,2021,0
4,CID,0,0,Economic Offence,Fraud,900,2021,0
`

type stringSource struct{ body string }

func (s stringSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func (s stringSource) String() string { return "inline.csv" }

// memReportRepo - хранилище сообщений в памяти
type memReportRepo struct {
	mu      sync.Mutex
	reports map[uuid.UUID]domain.UnofficialReport
	clock   time.Time
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{
		reports: make(map[uuid.UUID]domain.UnofficialReport),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memReportRepo) Create(_ context.Context, report *domain.UnofficialReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Minute)
	report.ID = uuid.New()
	report.CreatedAt = r.clock
	report.UpdatedAt = r.clock
	r.reports[report.ID] = *report
	return nil
}

func (r *memReportRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.UnofficialReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &report, nil
}

func (r *memReportRepo) List(_ context.Context, filter domain.ReportListFilter) ([]domain.UnofficialReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.UnofficialReport, 0)
	for _, report := range r.reports {
		if filter.Status != nil && report.Status != *filter.Status {
			continue
		}
		if filter.District != "" && report.District != filter.District {
			continue
		}
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Offset >= len(out) {
		return []domain.UnofficialReport{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memReportRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.ReportStatus) (*domain.UnofficialReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok || report.Status != from {
		return nil, repository.ErrNotFound
	}
	r.clock = r.clock.Add(time.Minute)
	report.Status = to
	report.UpdatedAt = r.clock
	r.reports[id] = report
	return &report, nil
}

func (r *memReportRepo) CountByStatus(context.Context) (map[domain.ReportStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.ReportStatus]int)
	for _, report := range r.reports {
		counts[report.Status]++
	}
	return counts, nil
}

// nopCache - кеш, в котором всегда промах
type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (nopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nopCache) Delete(context.Context, ...string) error { return nil }
func (nopCache) Exists(context.Context, string) (bool, error) { return false, nil }
func (nopCache) GetApprovedReports(context.Context) ([]domain.UnofficialReport, error) {
	return nil, nil
}
func (nopCache) SetApprovedReports(context.Context, []domain.UnofficialReport, time.Duration) error {
	return nil
}
func (nopCache) GetModerationSummary(context.Context) (*domain.ModerationSummary, error) {
	return nil, nil
}
func (nopCache) SetModerationSummary(context.Context, *domain.ModerationSummary, time.Duration) error {
	return nil
}
func (nopCache) InvalidateReports(context.Context) error { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ReportEvent
}

func (p *recordingPublisher) PublishReportEvent(_ context.Context, e domain.ReportEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}
