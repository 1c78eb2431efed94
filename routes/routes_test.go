package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookie/database"
	"bookie/models"
	"bookie/providers/feed"
	"bookie/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	app := fiber.New()
	Setup(app, services.NewEngine(db, nil), feed.NewClient("", "", nil))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, userID uint, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User-Id", fmt.Sprint(userID))
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return resp.StatusCode, envelope
}

func TestBetLifecycleOverHTTP(t *testing.T) {
	app := setupApp(t)
	db := database.DB

	adminUser := models.User{Username: "boss", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&adminUser).Error)
	punter := models.User{Username: "punter", Role: models.RoleUser}
	require.NoError(t, db.Create(&punter).Error)

	// Admin funds the punter with a manual adjustment.
	status, _ := doJSON(t, app, http.MethodPost, "/admin/transactions", adminUser.ID, map[string]any{
		"user_id": punter.ID,
		"type":    "deposit",
		"amount":  "500",
	})
	require.Equal(t, http.StatusOK, status)

	// Admin authors a book.
	status, body := doJSON(t, app, http.MethodPost, "/admin/books", adminUser.ID, map[string]any{
		"title":    "Lions vs Tigers",
		"date":     time.Now().Format(time.RFC3339),
		"category": "football",
		"teams":    []map[string]any{{"name": "Lions"}, {"name": "Tigers"}},
		"events": []map[string]any{{
			"name": "Match Winner",
			"outcomes": []map[string]any{
				{"name": "Lions", "odds": "2.00"},
				{"name": "Tigers", "odds": "3.00"},
			},
		}},
	})
	require.Equal(t, http.StatusOK, status)

	book := body["data"].(map[string]any)
	event := book["events"].([]any)[0].(map[string]any)
	outcome := event["outcomes"].([]any)[0].(map[string]any)
	eventID := uint(event["ID"].(float64))
	outcomeID := uint(outcome["ID"].(float64))

	// Punter places a bet; admin-only routes are closed to them.
	status, _ = doJSON(t, app, http.MethodPost, "/admin/books", punter.ID, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodPost, "/user/bets", punter.ID, map[string]any{
		"outcome_id": outcomeID,
		"amount":     "50",
	})
	require.Equal(t, http.StatusOK, status)

	// Stake out, potential win pending.
	status, body = doJSON(t, app, http.MethodGet, "/user/balance", punter.ID, nil)
	require.Equal(t, http.StatusOK, status)
	bal := body["data"].(map[string]any)
	require.Equal(t, "450", bal["available"])
	require.Equal(t, "100", bal["net_pending"])

	// Admin settles the event in the punter's favor.
	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/admin/events/%d/settle", eventID), adminUser.ID, map[string]any{
		"winning_outcome_id": outcomeID,
	})
	require.Equal(t, http.StatusOK, status)
	settle := body["data"].(map[string]any)
	require.EqualValues(t, 1, settle["settled_count"])
	require.Equal(t, "Lions", settle["winning_outcome"])

	status, body = doJSON(t, app, http.MethodGet, "/user/balance", punter.ID, nil)
	require.Equal(t, http.StatusOK, status)
	bal = body["data"].(map[string]any)
	require.Equal(t, "550", bal["available"])
	require.Equal(t, "0", bal["net_pending"])

	// Settling again is a clean no-op.
	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/admin/events/%d/settle", eventID), adminUser.ID, map[string]any{
		"winning_outcome_id": outcomeID,
	})
	require.Equal(t, http.StatusOK, status)
	settle = body["data"].(map[string]any)
	require.EqualValues(t, 0, settle["settled_count"])
}

func TestIdentityRequired(t *testing.T) {
	app := setupApp(t)

	status, _ := doJSON(t, app, http.MethodGet, "/user/balance", 0, nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestBlockedUserRejected(t *testing.T) {
	app := setupApp(t)
	db := database.DB

	blocked := models.User{Username: "blocked", Role: models.RoleUser, IsBlocked: true}
	require.NoError(t, db.Create(&blocked).Error)

	status, _ := doJSON(t, app, http.MethodGet, "/user/balance", blocked.ID, nil)
	require.Equal(t, http.StatusForbidden, status)
}
