package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository"
	"github.com/duelstack/ytg-api/internal/repository/dao"
	"github.com/duelstack/ytg-api/internal/service"
	"github.com/duelstack/ytg-api/internal/testutil"
)

func newLedgerService(t *testing.T) (*service.LedgerService, *gorm.DB) {
	t.Helper()

	db := testutil.OpenTestDB(t)
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))

	return service.NewLedgerService(ledgerRepo, userRepo), db
}

func createUser(t *testing.T, db *gorm.DB, username string, point, rankingPoint int) dao.User {
	t.Helper()

	user, err := dao.NewUserDAO(db).Insert(context.Background(), dao.User{
		Username:     username,
		Nickname:     username,
		Password:     "hashed",
		Point:        point,
		RankingPoint: rankingPoint,
	})
	require.NoError(t, err)

	return user
}

func TestBulkTournamentResults_PartialSuccess(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	yugi := createUser(t, db, "yugi", 0, 0)
	kaiba := createUser(t, db, "kaiba", 0, 0)
	joey := createUser(t, db, "joey", 0, 0)

	report, err := svc.BulkTournamentResults(ctx, "Battle City", []domain.BulkResultEntry{
		{UserID: yugi.ID, Position: "1st", PointEarned: 10, RankingPointEarned: 8},
		{UserID: kaiba.ID, Position: "2nd", PointEarned: 6, RankingPointEarned: 5},
		{UserID: joey.ID, Position: "3rd", PointEarned: 4, RankingPointEarned: 3},
		{UserID: 9999, Position: "4th", PointEarned: 2, RankingPointEarned: 1},
	})
	require.NoError(t, err)

	require.False(t, report.AllSucceeded())
	require.Len(t, report.Succeeded, 3)
	require.Len(t, report.Errors, 1)
	require.Equal(t, 3, report.Errors[0].Index)
	require.EqualValues(t, 9999, report.Errors[0].UserID)
	require.Equal(t, "user not found", report.Errors[0].Reason)

	_, err = uuid.Parse(report.BatchID)
	require.NoError(t, err)

	// The three valid entries committed independently of the failed one.
	users := dao.NewUserDAO(db)
	for _, expected := range []struct {
		id      uint
		point   int
		ranking int
	}{
		{yugi.ID, 10, 8},
		{kaiba.ID, 6, 5},
		{joey.ID, 4, 3},
	} {
		user, err := users.FindByID(ctx, expected.id)
		require.NoError(t, err)
		require.Equal(t, expected.point, user.Point)
		require.Equal(t, expected.ranking, user.RankingPoint)
	}

	var resultCount int64
	require.NoError(t, db.Model(&dao.TournamentResult{}).Count(&resultCount).Error)
	require.EqualValues(t, 3, resultCount)
}

func TestBulkTournamentResults_AllSucceeded(t *testing.T) {
	svc, db := newLedgerService(t)

	yugi := createUser(t, db, "yugi", 0, 0)

	report, err := svc.BulkTournamentResults(context.Background(), "Locals", []domain.BulkResultEntry{
		{UserID: yugi.ID, Position: "1st", PointEarned: 5, RankingPointEarned: 5},
	})
	require.NoError(t, err)
	require.True(t, report.AllSucceeded())
	require.Len(t, report.Succeeded, 1)
	require.Equal(t, "yugi", report.Succeeded[0].Username)
	require.Empty(t, report.Errors)
}

func TestBulkTournamentResults_NegativeEntryRecorded(t *testing.T) {
	svc, db := newLedgerService(t)

	yugi := createUser(t, db, "yugi", 0, 0)

	report, err := svc.BulkTournamentResults(context.Background(), "Locals", []domain.BulkResultEntry{
		{UserID: yugi.ID, Position: "1st", PointEarned: -5},
	})
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	require.Equal(t, "earned points cannot be negative", report.Errors[0].Reason)
}

func TestAdjustPoints(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	yugi := createUser(t, db, "yugi", 0, 0)

	txn, user, err := svc.AdjustPoints(ctx, yugi.ID, 25, "compensation")
	require.NoError(t, err)
	require.Equal(t, 25, txn.Points)
	require.Equal(t, "yugi", txn.Username)
	require.Equal(t, 25, user.Point)

	_, _, err = svc.AdjustPoints(ctx, yugi.ID, 0, "noop")
	require.ErrorIs(t, err, service.ErrZeroPoints)

	_, _, err = svc.AdjustPoints(ctx, 9999, 10, "ghost")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestReconcile(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	yugi := createUser(t, db, "yugi", 0, 0)

	_, _, err := svc.AdjustPoints(ctx, yugi.ID, 30, "credit")
	require.NoError(t, err)

	require.NoError(t, db.Model(&dao.User{}).Where("id = ?", yugi.ID).Update("point", 99).Error)

	pointDrift, rankingDrift, err := svc.Reconcile(ctx, yugi.ID)
	require.NoError(t, err)
	require.Equal(t, 69, pointDrift)
	require.Zero(t, rankingDrift)

	_, _, err = svc.Reconcile(ctx, 9999)
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestMonthlyRanking_InvalidMonth(t *testing.T) {
	svc, _ := newLedgerService(t)

	_, err := svc.MonthlyRanking(context.Background(), 2026, 13, 1, 10)
	require.ErrorIs(t, err, service.ErrInvalidRankingMonth)

	_, err = svc.MonthlyRanking(context.Background(), 2026, 0, 1, 10)
	require.ErrorIs(t, err, service.ErrInvalidRankingMonth)
}

func TestMonthlyRanking_PageMath(t *testing.T) {
	svc, db := newLedgerService(t)

	at := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		user := createUser(t, db, name, 0, 0)
		require.NoError(t, db.Create(&dao.TournamentResult{
			UserID:             user.ID,
			TournamentName:     "May Cup",
			RankingPointEarned: 30 - i*10,
			CreatedAt:          at,
			UpdatedAt:          at,
		}).Error)
	}

	page, err := svc.MonthlyRanking(context.Background(), 2026, 5, 1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, page.TotalItems)
	require.Equal(t, 2, page.TotalPages)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 2, page.PageSize)
	require.Len(t, page.Entries, 2)
	require.Equal(t, "first", page.Entries[0].Username)

	page, err = svc.MonthlyRanking(context.Background(), 2026, 5, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.Equal(t, "third", page.Entries[0].Username)

	// Out-of-range pages come back empty, not as errors.
	page, err = svc.MonthlyRanking(context.Background(), 2026, 5, 9, 2)
	require.NoError(t, err)
	require.Empty(t, page.Entries)
}

func TestUserRanking(t *testing.T) {
	svc, db := newLedgerService(t)

	createUser(t, db, "top", 0, 50)
	mid := createUser(t, db, "mid", 0, 20)

	position, user, err := svc.UserRanking(context.Background(), mid.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, position)
	require.Equal(t, "mid", user.Username)
	require.Equal(t, 20, user.RankingPoint)
}
