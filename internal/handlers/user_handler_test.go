package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
	"maildesk/internal/auth"
	"maildesk/internal/middleware"
	"maildesk/internal/repository"
)

func newUserHandler(t *testing.T, db *sql.DB) (*UserHandler, *auth.Service) {
	t.Helper()
	sessions, err := auth.NewSessionIssuer([]byte("dev"), 30*time.Minute)
	if err != nil {
		t.Fatalf("NewSessionIssuer: %v", err)
	}
	users := repository.NewUserRepository(db)
	logins := repository.NewLoginHistoryRepository(db)
	svc, err := auth.NewService(auth.ServiceDeps{
		Users:    users,
		Logins:   logins,
		Hasher:   auth.NewHasher(bcrypt.MinCost),
		Sessions: sessions,
		Resets:   auth.NewResetStore(time.Hour),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewUserHandler(users, logins, svc), svc
}

// doAuthed runs the request through RequireSession so the handler sees the
// same context a routed request would.
func doAuthed(t *testing.T, svc *auth.Service, token string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	middleware.RequireSession(svc)(h).ServeHTTP(w, req)
	return w
}

func TestMeReturnsProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h, svc := newUserHandler(t, db)
	token := sessionToken(t)

	mock.ExpectQuery(userColumns).WithArgs("u1").WillReturnRows(userRow("hash"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := doAuthed(t, svc, token, h.Me, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "a@b.com" {
		t.Fatalf("unexpected body %v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash leaked: %v", resp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword: %v", err)
	}

	h, svc := newUserHandler(t, db)
	token := sessionToken(t)

	mock.ExpectQuery(userColumns).WithArgs("u1").WillReturnRows(userRow(string(hash)))

	payload := map[string]any{"current_password": "wrongpassword", "new_password": "newpassword123"}
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/change-password", bytes.NewReader(b))
	w := doAuthed(t, svc, token, h.ChangePassword, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "invalid_password" {
		t.Fatalf("expected invalid_password, got %v", resp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoginHistoryEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h, svc := newUserHandler(t, db)
	token := sessionToken(t)

	mock.ExpectQuery(`SELECT id, user_id, login_at\s+FROM login_history`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "login_at"}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/login-history", nil)
	w := doAuthed(t, svc, token, h.LoginHistory, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func sessionToken(t *testing.T) string {
	t.Helper()
	sessions, err := auth.NewSessionIssuer([]byte("dev"), 30*time.Minute)
	if err != nil {
		t.Fatalf("NewSessionIssuer: %v", err)
	}
	token, err := sessions.Issue(auth.Identity{UserID: "u1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}
