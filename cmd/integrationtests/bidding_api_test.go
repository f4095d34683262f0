package integrationtests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"player-auction/internal/models"
	"player-auction/services/bidding/helpers"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var (
	admin = models.Caller{ID: "admin-1", Username: "admin", Role: models.RoleAdmin}
	blue  = models.Caller{ID: "owner-blue", Username: "blue", Role: models.RoleTeamOwner}
	red   = models.Caller{ID: "owner-red", Username: "red", Role: models.RoleTeamOwner}
)

func createTeam(t *testing.T, env *TestEnv, owner models.Caller, name string) string {
	t.Helper()
	resp, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/teams", env.Token(t, admin),
		helpers.CreateTeamRequest{Name: name, OwnerID: owner.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	return Data(t, resp)["id"].(string)
}

func createItem(t *testing.T, env *TestEnv, name string, base float64) string {
	t.Helper()
	resp, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/items", env.Token(t, admin),
		helpers.CreateItemRequest{Name: name, Category: models.CategoryBowler, BasePrice: base})
	require.Equal(t, http.StatusCreated, w.Code)
	return Data(t, resp)["id"].(string)
}

// Two teams bid, the timer closes the lot, the winner is charged
func TestAuctionFlow(t *testing.T) {
	env := SetupTestEnv(t)
	adminToken := env.Token(t, admin)
	blueToken := env.Token(t, blue)
	redToken := env.Token(t, red)

	createTeam(t, env, blue, "Blue")
	redID := createTeam(t, env, red, "Red")
	itemID := createItem(t, env, "Fast Bowler", 50)

	resp, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/items/"+itemID+"/start", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Ongoing", Data(t, resp)["status"])

	bids := []struct {
		token      string
		amount     float64
		wantStatus int
		wantReason string
	}{
		{blueToken, 50, http.StatusCreated, ""},
		{redToken, 60, http.StatusCreated, ""},
		{blueToken, 60, http.StatusBadRequest, "bid_below_floor"},
		{blueToken, 75, http.StatusBadRequest, "bid_not_multiple"},
		{adminToken, 80, http.StatusForbidden, "not_team_owner"},
	}
	for _, b := range bids {
		resp, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/items/"+itemID+"/bids", b.token,
			helpers.PlaceBidRequest{Amount: b.amount})
		require.Equal(t, b.wantStatus, w.Code, "bid %.2f: %v", b.amount, resp)
		if b.wantReason != "" {
			require.Equal(t, b.wantReason, resp["reason"])
		}
	}

	env.Clock.Advance(31 * time.Second)
	require.NoError(t, env.Service.Tick(context.Background()))

	resp, w = env.ExecuteRequestAndParse(t, http.MethodGet, "/items/"+itemID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	item := Data(t, resp)
	require.Equal(t, "Sold", item["status"])
	require.Equal(t, redID, item["winner_id"])
	require.Equal(t, 60.0, item["sold_amount"])

	resp, w = env.ExecuteRequestAndParse(t, http.MethodGet, "/teams/mine/items", redToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 1)

	resp, w = env.ExecuteRequestAndParse(t, http.MethodGet, "/teams", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, raw := range resp["data"].([]any) {
		team := raw.(map[string]any)
		if team["id"] == redID {
			require.Equal(t, 940.0, team["budget"])
		} else {
			require.Equal(t, 1000.0, team["budget"])
		}
	}

	resp, w = env.ExecuteRequestAndParse(t, http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := Data(t, resp)
	require.Equal(t, 1.0, stats["items_sold"])
	require.Equal(t, 0.0, stats["live_lots"])
	require.Equal(t, 2.0, stats["registered_teams"])

	resp, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/items/"+itemID+"/bids", blueToken,
		helpers.PlaceBidRequest{Amount: 100})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "lot_not_ongoing", resp["reason"])
}

// Only one lot runs at a time and a manual settle is idempotent
func TestLotLifecycle(t *testing.T) {
	env := SetupTestEnv(t)
	adminToken := env.Token(t, admin)

	createTeam(t, env, blue, "Blue")
	first := createItem(t, env, "First", 50)
	second := createItem(t, env, "Second", 50)

	_, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/items/"+first+"/start", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/items/"+second+"/start", adminToken, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "lot_active", resp["reason"])

	resp, w = env.ExecuteRequestAndParse(t, http.MethodGet, "/items/available", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	available := resp["data"].([]any)
	require.Len(t, available, 2)
	require.Equal(t, first, available[0].(map[string]any)["id"])

	_, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/items/"+first+"/bids", env.Token(t, blue),
		helpers.PlaceBidRequest{Amount: 50})
	require.Equal(t, http.StatusCreated, w.Code)

	resp, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/items/"+first+"/settle", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	settled := Data(t, resp)
	require.Equal(t, true, settled["applied"])
	require.Equal(t, true, settled["item"].(map[string]any)["waived"])

	resp, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/items/"+first+"/settle", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "lot already settled", resp["message"])

	resp, w = env.ExecuteRequestAndParse(t, http.MethodDelete, "/items/"+first, adminToken, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "item_not_deletable", resp["reason"])

	_, w = env.ExecuteRequestAndParse(t, http.MethodDelete, "/items/"+second, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp, w = env.ExecuteRequestAndParse(t, http.MethodGet, "/items/"+second, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "item_not_found", resp["reason"])
}

func TestEnrollmentAndSettings(t *testing.T) {
	env := SetupTestEnv(t)
	adminToken := env.Token(t, admin)

	resp, w := env.ExecuteRequestAndParse(t, http.MethodPost, "/enrollment/items", "", helpers.SelfEnrollRequest{Name: "Walk In", Discord: "walkin"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "enrollment_closed", resp["reason"])

	_, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/enrollment", env.Token(t, blue), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/enrollment", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := time.Parse(time.RFC3339, Data(t, resp)["open_until"].(string))
	require.NoError(t, err)

	resp, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/enrollment/items", "", helpers.SelfEnrollRequest{Name: "Walk In", Discord: "walkin"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, true, Data(t, resp)["self_enrolled"])
	require.Equal(t, 0.0, Data(t, resp)["base_price"])

	resp, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/enrollment/items", "", helpers.SelfEnrollRequest{Name: "Walk In", Discord: "walkin"})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "duplicate_item", resp["reason"])

	resp, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/enrollment/items", "", helpers.SelfEnrollRequest{Name: "Late Comer", Discord: "walkin"})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "duplicate_discord_username", resp["reason"])

	resp, w = env.ExecuteRequestAndParse(t, http.MethodPut, "/admin/settings", adminToken, helpers.SettingsRequest{LotDurationSeconds: 5})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid_duration", resp["reason"])

	_, w = env.ExecuteRequestAndParse(t, http.MethodPut, "/admin/settings", adminToken, helpers.SettingsRequest{LotDurationSeconds: 90})
	require.Equal(t, http.StatusOK, w.Code)

	itemID := createItem(t, env, "Slow Lot", 10)
	resp, w = env.ExecuteRequestAndParse(t, http.MethodPost, "/items/"+itemID+"/start", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	until, err := time.Parse(time.RFC3339, Data(t, resp)["active_until"].(string))
	require.NoError(t, err)
	require.WithinDuration(t, env.Clock.Now().Add(90*time.Second), until, time.Second)
}

func TestAuthenticationRequired(t *testing.T) {
	env := SetupTestEnv(t)

	tests := []struct {
		name   string
		header string
		reason string
	}{
		{"no_header", "", "missing_token"},
		{"garbage", "Bearer not-a-jwt", "invalid_token"},
		{"wrong_scheme", "Basic YWRtaW46YWRtaW4=", "missing_token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			env.Router.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tc.reason, resp["reason"])
		})
	}
}

// Observers on the websocket feed see state changes made over HTTP
func TestWebsocketObserver(t *testing.T) {
	env := SetupTestEnv(t)
	srv := httptest.NewServer(env.Router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return env.Hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	itemID := createItem(t, env, "Watched", 20)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	seen := map[models.EventName]bool{}
	for !(seen[models.EventItemsUpdated] && seen[models.EventStatsUpdated] && seen[models.EventAuditLog]) {
		var event models.Event
		require.NoError(t, conn.ReadJSON(&event))
		seen[event.Name] = true
		if event.Name == models.EventItemsUpdated {
			require.Equal(t, itemID, event.ItemID)
		}
		if event.Name == models.EventStatsUpdated {
			require.NotNil(t, event.Stats)
			require.Equal(t, 1, event.Stats.TotalItems)
		}
	}
}
