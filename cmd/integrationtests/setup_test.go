package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"player-auction/internal/auth"
	bidding "player-auction/internal/biddingService"
	"player-auction/internal/broadcast"
	"player-auction/internal/config"
	"player-auction/internal/models"
	"player-auction/internal/repository"
	"player-auction/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "integration-secret"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// TestEnv is a fully wired auction over the in-memory store
type TestEnv struct {
	Router  *gin.Engine
	Service *bidding.BiddingService
	Hub     *broadcast.Hub
	Clock   *testClock

	issuer *auth.Issuer
}

// SetupTestEnv initializes the router, service and dispatcher for integration testing.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := broadcast.NewHub()
	dispatcher := broadcast.NewDispatcher(1024, hub)
	go dispatcher.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-dispatcher.Done()
		hub.Close()
	})

	clock := &testClock{now: time.Now().UTC()}
	opts := bidding.OptionsFromConfig(config.Default())
	opts.Clock = clock.Now
	service := bidding.NewBiddingService(repository.NewMemoryRepo(), dispatcher, opts)

	issuer, err := auth.NewIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	return &TestEnv{
		Router:  server.SetupRouter(service, auth.NewAuthenticator(testSecret), hub),
		Service: service,
		Hub:     hub,
		Clock:   clock,
		issuer:  issuer,
	}
}

// Token mints a bearer token for caller
func (e *TestEnv) Token(t *testing.T, caller models.Caller) string {
	t.Helper()
	token, err := e.issuer.Issue(caller)
	require.NoError(t, err)
	return token
}

// ExecuteRequestAndParse executes an HTTP request on the router and parses the envelope
func (e *TestEnv) ExecuteRequestAndParse(t *testing.T, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.Router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data returns the envelope's data object
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response data is not an object: %v", resp)
	return data
}
