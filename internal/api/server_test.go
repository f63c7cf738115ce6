package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/duelstack/ytg-api/internal/api"
	"github.com/duelstack/ytg-api/internal/config"
	"github.com/duelstack/ytg-api/internal/repository/dao"
	"github.com/duelstack/ytg-api/internal/testutil"
)

func newTestServer(t *testing.T) (*api.Server, *gorm.DB) {
	t.Helper()

	db := testutil.OpenTestDB(t)
	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:   "test",
			Port:          "8080",
			JWTSigningKey: "test-signing-key",
		},
		Gin: &config.GinConfig{
			Mode: gin.TestMode,
		},
	}

	return api.NewServer(conf, db), db
}

func doRequest(t *testing.T, srv *api.Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createAdmin(t *testing.T, db *gorm.DB, username, password string) dao.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	admin, err := dao.NewUserDAO(db).Insert(context.Background(), dao.User{
		Username: username,
		Password: string(hash),
		IsAdmin:  true,
	})
	require.NoError(t, err)

	return admin
}

func login(t *testing.T, srv *api.Server, username, password string) string {
	t.Helper()

	w := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

func TestHealthcheck(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterAndLoginFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "yugi",
		"password": "duelpass1",
		"email":    "yugi@duelstack.gg",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Weak password is rejected before it reaches the service.
	w = doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "kaiba",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate username.
	w = doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "yugi",
		"password": "duelpass1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	token := login(t, srv, "yugi", "duelpass1")

	w = doRequest(t, srv, http.MethodGet, "/api/v1/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		Username string `json:"username"`
		Point    int    `json:"point"`
	}
	decodeBody(t, w, &profile)
	require.Equal(t, "yugi", profile.Username)
	require.Zero(t, profile.Point)

	w = doRequest(t, srv, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "yugi",
		"password": "wrongpass1",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/user", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	srv, db := newTestServer(t)

	createAdmin(t, db, "admin", "adminpass1")

	w := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "yugi",
		"password": "duelpass1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	userToken := login(t, srv, "yugi", "duelpass1")
	adminToken := login(t, srv, "admin", "adminpass1")

	w = doRequest(t, srv, http.MethodGet, "/api/v1/users", userToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdjustPointsEndpoint(t *testing.T) {
	srv, db := newTestServer(t)

	createAdmin(t, db, "admin", "adminpass1")
	adminToken := login(t, srv, "admin", "adminpass1")

	w := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "yugi",
		"password": "duelpass1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		ID uint `json:"id"`
	}
	decodeBody(t, w, &registered)

	w = doRequest(t, srv, http.MethodPost, "/api/v1/point/adjust", adminToken, gin.H{
		"user_id":     registered.ID,
		"points":      40,
		"description": "event credit",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var adjusted struct {
		Balance     int `json:"balance"`
		Transaction struct {
			ID     string `json:"id"`
			Points int    `json:"points"`
		} `json:"transaction"`
	}
	decodeBody(t, w, &adjusted)
	require.Equal(t, 40, adjusted.Balance)
	require.Equal(t, 40, adjusted.Transaction.Points)
	require.Len(t, adjusted.Transaction.ID, 7)

	// Zero delta rejected.
	w = doRequest(t, srv, http.MethodPost, "/api/v1/point/adjust", adminToken, gin.H{
		"user_id":     registered.ID,
		"points":      0,
		"description": "noop",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown user.
	w = doRequest(t, srv, http.MethodPost, "/api/v1/point/adjust", adminToken, gin.H{
		"user_id":     9999,
		"points":      10,
		"description": "ghost",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	userToken := login(t, srv, "yugi", "duelpass1")
	w = doRequest(t, srv, http.MethodGet, "/api/v1/user/points/history", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history []struct {
		Points int `json:"points"`
	}
	decodeBody(t, w, &history)
	require.Len(t, history, 1)
}

func TestHistoryAdminLookup(t *testing.T) {
	srv, db := newTestServer(t)

	createAdmin(t, db, "admin", "adminpass1")
	adminToken := login(t, srv, "admin", "adminpass1")

	w := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "yugi",
		"password": "duelpass1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		ID uint `json:"id"`
	}
	decodeBody(t, w, &registered)

	w = doRequest(t, srv, http.MethodPost, "/api/v1/point/adjust", adminToken, gin.H{
		"user_id":     registered.ID,
		"points":      25,
		"description": "event credit",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Admin inspects another user's ledger.
	path := fmt.Sprintf("/api/v1/user/points/history?user=%d", registered.ID)
	w = doRequest(t, srv, http.MethodGet, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history []struct {
		Points int `json:"points"`
	}
	decodeBody(t, w, &history)
	require.Len(t, history, 1)
	require.Equal(t, 25, history[0].Points)

	// Unknown target is a 404, not a server error.
	w = doRequest(t, srv, http.MethodGet, "/api/v1/user/points/history?user=9999", adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Non-numeric target is rejected.
	w = doRequest(t, srv, http.MethodGet, "/api/v1/user/points/history?user=bogus", adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Non-admins cannot redirect the lookup; they always see their own ledger.
	userToken := login(t, srv, "yugi", "duelpass1")
	w = doRequest(t, srv, http.MethodGet, "/api/v1/user/points/history?user=9999", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &history)
	require.Len(t, history, 1)
}

func TestBulkTournamentEndpoint(t *testing.T) {
	srv, db := newTestServer(t)

	createAdmin(t, db, "admin", "adminpass1")
	adminToken := login(t, srv, "admin", "adminpass1")

	var ids []uint
	for _, name := range []string{"yugi", "kaiba", "joey"} {
		w := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"username": name,
			"password": "duelpass1",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var registered struct {
			ID uint `json:"id"`
		}
		decodeBody(t, w, &registered)
		ids = append(ids, registered.ID)
	}

	entries := []gin.H{
		{"user_id": ids[0], "position": "1st", "point_earned": 10, "ranking_point_earned": 8},
		{"user_id": ids[1], "position": "2nd", "point_earned": 6, "ranking_point_earned": 5},
		{"user_id": ids[2], "position": "3rd", "point_earned": 4, "ranking_point_earned": 3},
	}

	w := doRequest(t, srv, http.MethodPost, "/api/v1/tournament/bulk", adminToken, gin.H{
		"tournament_name": "Battle City",
		"entries":         entries,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// One bad entry turns the batch into a partial success.
	entries = append(entries, gin.H{"user_id": 9999, "position": "4th", "point_earned": 2, "ranking_point_earned": 1})
	w = doRequest(t, srv, http.MethodPost, "/api/v1/tournament/bulk", adminToken, gin.H{
		"tournament_name": "Battle City Finals",
		"entries":         entries,
	})
	require.Equal(t, http.StatusMultiStatus, w.Code)

	var report struct {
		BatchID   string `json:"batch_id"`
		Succeeded []struct {
			UserID uint `json:"user_id"`
		} `json:"succeeded"`
		Errors []struct {
			Index  int    `json:"index"`
			Reason string `json:"reason"`
		} `json:"errors"`
	}
	decodeBody(t, w, &report)
	require.NotEmpty(t, report.BatchID)
	require.Len(t, report.Succeeded, 3)
	require.Len(t, report.Errors, 1)
	require.Equal(t, 3, report.Errors[0].Index)
}

func TestOrderEndpoints(t *testing.T) {
	srv, db := newTestServer(t)
	ctx := context.Background()

	card, err := dao.NewCatalogDAO(db).InsertCard(ctx, dao.Card{
		Name:     "Blue-Eyes White Dragon",
		Price:    500,
		Stock:    4,
		CardCode: "LOB-001",
		Version:  "v1",
	})
	require.NoError(t, err)

	w := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "yugi",
		"password": "duelpass1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token := login(t, srv, "yugi", "duelpass1")

	w = doRequest(t, srv, http.MethodPost, "/api/v1/orders/create", token, gin.H{
		"items": []gin.H{
			{"product_type": "card", "product_id": card.ID, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var order struct {
		ID         uint  `json:"id"`
		TotalPrice int64 `json:"total_price"`
	}
	decodeBody(t, w, &order)
	require.EqualValues(t, 1000, order.TotalPrice)

	// Not enough stock left for five more.
	w = doRequest(t, srv, http.MethodPost, "/api/v1/orders/create", token, gin.H{
		"items": []gin.H{
			{"product_type": "card", "product_id": card.ID, "quantity": 5},
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/user/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cancelPath := fmt.Sprintf("/api/v1/user/orders/%d/cancel", order.ID)
	w = doRequest(t, srv, http.MethodPost, cancelPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, http.MethodPost, cancelPath, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRedemptionEndpoints(t *testing.T) {
	srv, db := newTestServer(t)
	ctx := context.Background()

	createAdmin(t, db, "admin", "adminpass1")
	adminToken := login(t, srv, "admin", "adminpass1")

	reward, err := dao.NewRewardDAO(db).InsertReward(ctx, dao.Reward{
		Name:  "Playmat",
		Cost:  60,
		Stock: 1,
	})
	require.NoError(t, err)

	w := doRequest(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "yugi",
		"password": "duelpass1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		ID uint `json:"id"`
	}
	decodeBody(t, w, &registered)
	token := login(t, srv, "yugi", "duelpass1")

	w = doRequest(t, srv, http.MethodPost, "/api/v1/user/point/redeem", token, gin.H{
		"reward_id": reward.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Redemption struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"redemption"`
	}
	decodeBody(t, w, &created)
	require.Equal(t, "pending", created.Redemption.Status)

	confirmPath := fmt.Sprintf("/api/v1/admin/redemption/%d/confirm", created.Redemption.ID)

	// Cannot afford it yet; the redemption stays pending.
	w = doRequest(t, srv, http.MethodPost, confirmPath, adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodPost, "/api/v1/point/adjust", adminToken, gin.H{
		"user_id":     registered.ID,
		"points":      100,
		"description": "event credit",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, srv, http.MethodPost, confirmPath, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var confirmed struct {
		Redemption struct {
			Status string `json:"status"`
		} `json:"redemption"`
		Transaction *struct {
			Points int `json:"points"`
		} `json:"transaction"`
	}
	decodeBody(t, w, &confirmed)
	require.Equal(t, "completed", confirmed.Redemption.Status)
	require.NotNil(t, confirmed.Transaction)
	require.Equal(t, -60, confirmed.Transaction.Points)

	// Double confirm is a state conflict.
	w = doRequest(t, srv, http.MethodPost, confirmPath, adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogAdminEndpoints(t *testing.T) {
	srv, db := newTestServer(t)

	createAdmin(t, db, "admin", "adminpass1")
	adminToken := login(t, srv, "admin", "adminpass1")

	w := doRequest(t, srv, http.MethodPost, "/api/v1/admin/cards", adminToken, gin.H{
		"name":      "Dark Magician",
		"price":     700,
		"stock":     3,
		"card_code": "LOB-005",
		"version":   "v1",
		"rarity":    "ultra",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Missing card code fails validation.
	w = doRequest(t, srv, http.MethodPost, "/api/v1/admin/cards", adminToken, gin.H{
		"name":  "Kuriboh",
		"price": 100,
		"stock": 10,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodPost, "/api/v1/admin/boosters", adminToken, gin.H{
		"name":         "Legend of Blue Eyes",
		"price":        300,
		"stock":        12,
		"booster_code": "LOB",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, srv, http.MethodPost, "/api/v1/admin/rewards", adminToken, gin.H{
		"name":  "Deck Box",
		"cost":  50,
		"stock": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Public listings expose what the admin created.
	w = doRequest(t, srv, http.MethodGet, "/api/v1/cards", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cards []struct {
		Name string `json:"name"`
	}
	decodeBody(t, w, &cards)
	require.Len(t, cards, 1)
	require.Equal(t, "Dark Magician", cards[0].Name)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/rewards", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rewards []struct {
		Cost int `json:"cost"`
	}
	decodeBody(t, w, &rewards)
	require.Len(t, rewards, 1)
	require.Equal(t, 50, rewards[0].Cost)
}

func TestMonthlyRankingEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/v1/ranking/monthly?year=2026&month=13", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/ranking/monthly?year=2026&month=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Entries  []json.RawMessage `json:"entries"`
		Page     int               `json:"page"`
		PageSize int               `json:"page_size"`
	}
	decodeBody(t, w, &page)
	require.Empty(t, page.Entries)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 20, page.PageSize)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/ranking/monthly?month=bogus", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
