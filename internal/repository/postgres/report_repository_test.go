package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/domain/repository"
	"github.com/crime-dashboard/internal/repository/postgres/testhelpers"
)

const migrationsPath = "../../../migrations"

// ReportRepositoryTestSuite тестирует ReportRepository на реальной базе
type ReportRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.ReportRepository
	ctx    context.Context
}

func (s *ReportRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	_ = testhelpers.RollbackMigrations(s.testDB.DB.DB, migrationsPath)
	s.Require().NoError(testhelpers.ApplyMigrations(s.testDB.DB.DB, migrationsPath))

	s.repo = testhelpers.NewReportRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *ReportRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

// SetupTest перезагружает фикстуры перед каждым тестом
func (s *ReportRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
	s.Require().NoError(testhelpers.LoadFixtures(s.testDB.DB.DB, "testdata/fixtures", []string{"reports.sql"}))
}

// ============================================================================
// Create / GetByID
// ============================================================================

func (s *ReportRepositoryTestSuite) TestCreate_AssignsIDAndTimestamps() {
	email := "someone@example.com"
	report := &domain.UnofficialReport{
		CrimeCategory: "Property Crime",
		CrimeType:     "Theft",
		District:      "Nizamabad",
		Description:   "Bicycle stolen from the market",
		Location:      domain.GeoPoint{Lat: 18.672, Lng: 78.094},
		Email:         &email,
		IsAnonymous:   false,
	}

	s.Require().NoError(s.repo.Create(s.ctx, report))

	s.NotEqual(uuid.Nil, report.ID)
	s.Equal(domain.ReportStatusPending, report.Status)
	s.False(report.CreatedAt.IsZero())

	got, err := s.repo.GetByID(s.ctx, report.ID)
	s.Require().NoError(err)
	s.Equal("Nizamabad", got.District)
	s.InDelta(18.672, got.Location.Lat, 1e-9)
	s.InDelta(78.094, got.Location.Lng, 1e-9)
	s.Require().NotNil(got.Email)
	s.Equal(email, *got.Email)
}

func (s *ReportRepositoryTestSuite) TestCreate_AnonymousDropsEmail() {
	email := "hidden@example.com"
	report := &domain.UnofficialReport{
		CrimeCategory: "Crime Against Women",
		CrimeType:     "Stalking",
		District:      "Hyderabad",
		Description:   "Followed home repeatedly",
		Location:      domain.GeoPoint{Lat: 17.36, Lng: 78.47},
		Email:         &email,
		IsAnonymous:   true,
	}

	s.Require().NoError(s.repo.Create(s.ctx, report))
	s.Nil(report.Email)

	got, err := s.repo.GetByID(s.ctx, report.ID)
	s.Require().NoError(err)
	s.Nil(got.Email)
}

func (s *ReportRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, repository.ErrNotFound)
}

// ============================================================================
// List
// ============================================================================

func (s *ReportRepositoryTestSuite) TestList_NewestFirst() {
	reports, err := s.repo.List(s.ctx, domain.ReportListFilter{})
	s.Require().NoError(err)
	s.Require().Len(reports, 4)
	s.Equal("Khammam", reports[0].District)
	s.Equal("Hyderabad", reports[3].District)
}

func (s *ReportRepositoryTestSuite) TestList_ByStatusAndDistrict() {
	approved := domain.ReportStatusApproved
	reports, err := s.repo.List(s.ctx, domain.ReportListFilter{Status: &approved})
	s.Require().NoError(err)
	s.Len(reports, 2)
	for _, r := range reports {
		s.Equal(domain.ReportStatusApproved, r.Status)
	}

	reports, err = s.repo.List(s.ctx, domain.ReportListFilter{District: "Hyderabad"})
	s.Require().NoError(err)
	s.Len(reports, 2)
}

func (s *ReportRepositoryTestSuite) TestList_Pagination() {
	reports, err := s.repo.List(s.ctx, domain.ReportListFilter{Limit: 2, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(reports, 2)
	s.Equal("Hyderabad", reports[0].District)
	s.Equal("Warangal", reports[1].District)
}

// ============================================================================
// UpdateStatus / CountByStatus
// ============================================================================

func (s *ReportRepositoryTestSuite) TestUpdateStatus_FromPending() {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	updated, err := s.repo.UpdateStatus(s.ctx, id, domain.ReportStatusPending, domain.ReportStatusApproved)
	s.Require().NoError(err)
	s.Equal(domain.ReportStatusApproved, updated.Status)
	s.True(updated.UpdatedAt.After(updated.CreatedAt))
}

func (s *ReportRepositoryTestSuite) TestUpdateStatus_ConditionNotMet() {
	id := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	_, err := s.repo.UpdateStatus(s.ctx, id, domain.ReportStatusPending, domain.ReportStatusRejected)
	s.ErrorIs(err, repository.ErrNotFound)

	n, err := testhelpers.CountReports(s.testDB.DB.DB, "approved")
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *ReportRepositoryTestSuite) TestCountByStatus() {
	counts, err := s.repo.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts[domain.ReportStatusPending])
	s.Equal(2, counts[domain.ReportStatusApproved])
	s.Equal(1, counts[domain.ReportStatusRejected])
}

func TestReportRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ReportRepositoryTestSuite))
}
