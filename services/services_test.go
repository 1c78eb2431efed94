package services

import (
	"testing"
	"time"

	"bookie/database"
	"bookie/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func fundUser(t *testing.T, db *gorm.DB, userID uint, amount string) {
	t.Helper()
	_, err := CreateManualTransaction(db, userID, models.TrxDeposit,
		decimal.RequireFromString(amount), "test funding", "test-admin")
	require.NoError(t, err)
}

// seedBook creates an active two-team book with a single "Match Winner"
// event: Home at 2.00, Away at 3.00.
func seedBook(t *testing.T, db *gorm.DB) models.Book {
	t.Helper()
	book, err := CreateBook(db, BookInput{
		Title:    "Home FC vs Away United",
		Date:     time.Now().Add(-time.Hour),
		Category: "football",
		Teams:    []TeamInput{{Name: "Home FC"}, {Name: "Away United"}},
		Events: []EventInput{
			{
				Name: "Match Winner",
				Outcomes: []OutcomeInput{
					{Name: "Home", Odds: decimal.RequireFromString("2.00")},
					{Name: "Away", Odds: decimal.RequireFromString("3.00")},
				},
			},
		},
	})
	require.NoError(t, err)
	return *book
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)),
		"expected %s, got %s", want, got)
}
