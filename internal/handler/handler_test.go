package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/reelmate/reelmate/internal/domain"
	"github.com/reelmate/reelmate/internal/handler"
	"github.com/reelmate/reelmate/internal/repository/sqlite"
	"github.com/reelmate/reelmate/internal/service"
)

const testJWTSecret = "test-secret-key-for-handler-tests"

// testServer bundles the wired router with the backing database so
// tests can reach past the HTTP surface when seeding.
type testServer struct {
	router http.Handler
	db     *sqlite.DB
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Cost 4 for fast tests, and a bucket large enough that the limiter
	// never interferes with tests that are not about rate limiting.
	auth := service.NewAuthService(db.Users(), testJWTSecret, 4)
	movies := service.NewMovieService(db.Movies(), nil)
	counters := service.NewCounterService(db.Users(), db.Watches())
	watchlist := service.NewWatchlistService(db.Watches(), movies, counters)
	follows := service.NewFollowService(db.Users(), db.Follows())

	limiter := service.NewTokenBucket(100, 100)
	t.Cleanup(limiter.Close)

	router := handler.NewRouter(handler.Deps{
		Auth:        auth,
		Watchlist:   watchlist,
		Follows:     follows,
		AuthLimiter: limiter,
	})

	return &testServer{router: router, db: db, auth: auth}
}

// seedMovie puts a movie row straight into the catalog so add requests
// resolve without an external source.
func (s *testServer) seedMovie(t *testing.T, movieID, title string) {
	t.Helper()
	err := s.db.Movies().Upsert(context.Background(), &domain.Movie{
		MovieID: movieID,
		Title:   title,
	})
	if err != nil {
		t.Fatalf("seed movie %s: %v", movieID, err)
	}
}

// registerAndLogin creates an account through the HTTP surface and
// returns the session cookie together with the user's id.
func (s *testServer) registerAndLogin(t *testing.T, username string) (*http.Cookie, string) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/register", map[string]any{
		"username":  username,
		"firstname": "Test",
		"lastname":  "User",
		"password":  "password123",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/login", map[string]any{
		"username": username,
		"password": "password123",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", username, rec.Code, rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatalf("login %s: no jwt cookie set", username)
	}

	var body struct {
		UserID string `json:"userid"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	return cookie, body.UserID
}

// do runs one request through the router. A non-nil body is encoded as
// JSON; a non-nil cookie is attached.
func (s *testServer) do(t *testing.T, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
