package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/domain/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

const reportColumns = `
	id, crime_category, crime_type, district, description,
	location[1] AS lat, location[0] AS lng,
	exact_location, email, is_anonymous, status, created_at, updated_at`

type reportRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReportRepository создает репозиторий неофициальных сообщений
func NewReportRepository(db *DB, logger *zap.Logger) repository.ReportRepository {
	return &reportRepository{
		db:     db,
		logger: logger,
	}
}

// reportRow - строка таблицы unofficial_reports
type reportRow struct {
	ID            uuid.UUID      `db:"id"`
	CrimeCategory string         `db:"crime_category"`
	CrimeType     string         `db:"crime_type"`
	District      string         `db:"district"`
	Description   string         `db:"description"`
	Lat           float64        `db:"lat"`
	Lng           float64        `db:"lng"`
	ExactLocation string         `db:"exact_location"`
	Email         sql.NullString `db:"email"`
	IsAnonymous   bool           `db:"is_anonymous"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r reportRow) toDomain() domain.UnofficialReport {
	report := domain.UnofficialReport{
		ID:            r.ID,
		CrimeCategory: r.CrimeCategory,
		CrimeType:     r.CrimeType,
		District:      r.District,
		Description:   r.Description,
		Location:      domain.GeoPoint{Lat: r.Lat, Lng: r.Lng},
		ExactLocation: r.ExactLocation,
		IsAnonymous:   r.IsAnonymous,
		Status:        domain.ReportStatus(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.Email.Valid {
		email := r.Email.String
		report.Email = &email
	}
	return report
}

func (r *reportRepository) Create(ctx context.Context, report *domain.UnofficialReport) error {
	query := `
		INSERT INTO unofficial_reports (
			crime_category, crime_type, district, description,
			location, exact_location, email, is_anonymous, status
		) VALUES ($1, $2, $3, $4, point($5, $6), $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	var email sql.NullString
	if report.Email != nil && !report.IsAnonymous {
		email = sql.NullString{String: *report.Email, Valid: true}
	}

	status := report.Status
	if status == "" {
		status = domain.ReportStatusPending
	}

	row := r.db.QueryRowxContext(ctx, query,
		report.CrimeCategory,
		report.CrimeType,
		report.District,
		report.Description,
		report.Location.Lng,
		report.Location.Lat,
		report.ExactLocation,
		email,
		report.IsAnonymous,
		string(status),
	)
	if err := row.Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt); err != nil {
		r.logger.Error("failed to insert report", zap.Error(err))
		return fmt.Errorf("insert report: %w", err)
	}

	report.Status = status
	if !email.Valid {
		report.Email = nil
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UnofficialReport, error) {
	query := `SELECT ` + reportColumns + ` FROM unofficial_reports WHERE id = $1`

	var row reportRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}

	report := row.toDomain()
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter domain.ReportListFilter) ([]domain.UnofficialReport, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.District != "" {
		args = append(args, filter.District)
		conditions = append(conditions, fmt.Sprintf("district = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + reportColumns + ` FROM unofficial_reports`)
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	fmt.Fprintf(&b, " ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, b.String(), args...); err != nil {
		r.logger.Error("failed to list reports", zap.Error(err))
		return nil, fmt.Errorf("list reports: %w", err)
	}

	reports := make([]domain.UnofficialReport, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.toDomain())
	}
	return reports, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ReportStatus) (*domain.UnofficialReport, error) {
	query := `
		UPDATE unofficial_reports
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + reportColumns

	var row reportRow
	if err := r.db.GetContext(ctx, &row, query, id, string(from), string(to)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update report %s status: %w", id, err)
	}

	r.logger.Info("report status updated",
		zap.String("id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	report := row.toDomain()
	return &report, nil
}

func (r *reportRepository) CountByStatus(ctx context.Context) (map[domain.ReportStatus]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM unofficial_reports GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count reports by status: %w", err)
	}

	counts := make(map[domain.ReportStatus]int, len(rows))
	for _, row := range rows {
		counts[domain.ReportStatus(row.Status)] = row.Count
	}
	return counts, nil
}
