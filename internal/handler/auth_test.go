package handler_test

import (
	"net/http"
	"testing"
)

func TestHandleRegister_Success(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/register", map[string]any{
		"username":  "alice",
		"firstname": "Alice",
		"lastname":  "Miller",
		"password":  "password123",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		User struct {
			UserID   string `json:"userid"`
			Username string `json:"username"`
		} `json:"user"`
	}
	decodeJSON(t, rec, &body)
	if body.User.Username != "alice" || body.User.UserID == "" {
		t.Fatalf("unexpected user payload: %+v", body.User)
	}
}

func TestHandleRegister_DuplicateUsername(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "alice")

	rec := s.do(t, http.MethodPost, "/register", map[string]any{
		"username":  "alice",
		"firstname": "Other",
		"lastname":  "Person",
		"password":  "password123",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestHandleRegister_InvalidInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"short username", map[string]any{"username": "ab", "firstname": "A", "lastname": "B", "password": "password123"}},
		{"bad characters", map[string]any{"username": "bad name!", "firstname": "A", "lastname": "B", "password": "password123"}},
		{"short password", map[string]any{"username": "alice", "firstname": "A", "lastname": "B", "password": "short"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/register", tc.body, nil)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d, body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleLogin_ReturnsCountsAndCookie(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "alice")

	rec := s.do(t, http.MethodPost, "/login", map[string]any{
		"username": "alice", "password": "password123",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cookieSet bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" && c.Value != "" && c.HttpOnly {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Fatal("expected an HttpOnly jwt cookie")
	}

	var body struct {
		Username        string `json:"username"`
		UserID          string `json:"userid"`
		MoviesCount     int64  `json:"movies_count"`
		WatchLaterCount int64  `json:"watch_later_count"`
		FollowersCount  int64  `json:"followers_count"`
	}
	decodeJSON(t, rec, &body)
	if body.Username != "alice" || body.UserID == "" {
		t.Fatalf("unexpected login body: %+v", body)
	}
	if body.MoviesCount != 0 || body.WatchLaterCount != 0 || body.FollowersCount != 0 {
		t.Fatalf("expected zeroed counts for a fresh user: %+v", body)
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "alice")

	rec := s.do(t, http.MethodPost, "/login", map[string]any{
		"username": "alice", "password": "wrong-password",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleLogin_UnknownUser(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/login", map[string]any{
		"username": "ghost", "password": "password123",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleLogout_ClearsCookie(t *testing.T) {
	s := newTestServer(t)
	cookie, _ := s.registerAndLogin(t, "alice")

	rec := s.do(t, http.MethodPost, "/logout", nil, cookie)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the jwt cookie to be expired")
	}
}
