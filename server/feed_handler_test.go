package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/christianvuerings/nakamura/config"
	nktesting "github.com/christianvuerings/nakamura/internal/testing"
)

func newTestServer(t *testing.T) (*Server, *sql.DB) {
	t.Helper()

	db := nktesting.CreateTestDB(t)
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:              0,
			RequestsPerSecond: 1000,
			Burst:             1000,
		},
		Feed: config.FeedConfig{
			ItemsPerPage:   config.DefaultItemsPerPage,
			MinimumResults: config.DefaultMinimumResults,
		},
	}
	return New(cfg, db, zaptest.NewLogger(t).Sugar()), db
}

func seedFeedGraph(t *testing.T, db *sql.DB) {
	t.Helper()

	exec := func(q string, args ...interface{}) {
		t.Helper()
		_, err := db.Exec(q, args...)
		require.NoError(t, err)
	}

	for _, id := range []string{"me", "ann", "cat", "dan", "eve"} {
		exec("INSERT INTO authorizables (id, type, first_name) VALUES (?, 'user', ?)", id, "N-"+id)
	}
	exec("INSERT INTO authorizables (id, type) VALUES ('golfers', 'group')")

	accept := func(a, b string) {
		exec("INSERT INTO contacts (user_id, contact_id, state) VALUES (?, ?, 'ACCEPTED')", a, b)
		exec("INSERT INTO contacts (user_id, contact_id, state) VALUES (?, ?, 'ACCEPTED')", b, a)
	}
	accept("me", "ann")
	accept("ann", "cat")
	accept("ann", "dan")

	exec("INSERT INTO group_members (group_id, member_id) VALUES ('golfers', 'me'), ('golfers', 'eve')")
}

func doFeedRequest(t *testing.T, srv *Server, url string) (*httptest.ResponseRecorder, feedResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	var body feedResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandleRelatedFeed(t *testing.T) {
	srv, db := newTestServer(t)
	seedFeedGraph(t, db)

	rec, body := doFeedRequest(t, srv, "/api/related?user=me")
	require.Equal(t, http.StatusOK, rec.Code)

	// cat and dan through ann, eve through golfers; ann is already
	// connected and me is the requester, so neither appears
	var got []string
	for _, r := range body.Results {
		got = append(got, r.Target)
	}
	assert.ElementsMatch(t, []string{"cat", "dan", "eve"}, got)
	assert.Equal(t, 3, body.Total)

	// Records carry the public profile projection
	for _, r := range body.Results {
		assert.Equal(t, r.Target, r.Profile["userid"])
	}
}

func TestHandleRelatedFeed_QuotaBound(t *testing.T) {
	srv, db := newTestServer(t)
	seedFeedGraph(t, db)

	rec, body := doFeedRequest(t, srv, "/api/related?user=me&items=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, body.Items)
	assert.LessOrEqual(t, body.Total, 2)
}

func TestHandleRelatedFeed_ReleasesCursorConnection(t *testing.T) {
	srv, db := newTestServer(t)
	seedFeedGraph(t, db)

	// items=2 meets the quota before the candidate cursor is drained, so
	// the cursor is abandoned mid-stream
	rec, _ := doFeedRequest(t, srv, "/api/related?user=me&items=2")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Zero(t, db.Stats().InUse, "candidate cursor must not pin a pool connection")
}

func TestHandleRelatedFeed_MissingUserParam(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doFeedRequest(t, srv, "/api/related")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRelatedFeed_InvalidItems(t *testing.T) {
	srv, db := newTestServer(t)
	seedFeedGraph(t, db)

	for _, items := range []string{"0", "-3", "many"} {
		rec, _ := doFeedRequest(t, srv, "/api/related?user=me&items="+items)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "items=%s", items)
	}
}

func TestHandleRelatedFeed_UnknownUser(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doFeedRequest(t, srv, "/api/related?user=ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRelatedFeed_EmptyFeedIsNotAnError(t *testing.T) {
	srv, db := newTestServer(t)
	_, err := db.Exec("INSERT INTO authorizables (id, type) VALUES ('loner', 'user')")
	require.NoError(t, err)

	rec, body := doFeedRequest(t, srv, "/api/related?user=loner")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, body.Total)
	assert.NotNil(t, body.Results)
}

func TestHandleRelatedFeed_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/related?user=me", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	db := nktesting.CreateTestDB(t)
	cfg := &config.Config{
		Server: config.ServerConfig{RequestsPerSecond: 1, Burst: 1},
		Feed:   config.FeedConfig{ItemsPerPage: 10, MinimumResults: 1},
	}
	srv := New(cfg, db, zaptest.NewLogger(t).Sugar())

	_, err := db.Exec("INSERT INTO authorizables (id, type) VALUES ('me', 'user')")
	require.NoError(t, err)

	first, _ := doFeedRequest(t, srv, "/api/related?user=me")
	require.Equal(t, http.StatusOK, first.Code)

	second, _ := doFeedRequest(t, srv, "/api/related?user=me")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
