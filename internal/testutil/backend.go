// Package testutil provides a fake To-Dogether backend for tests.
// It implements the REST contract the client consumes, with knobs for
// forcing failure statuses on individual endpoints.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/sinanfen/to-dogether-web-sub000/internal/domain"
)

// Backend is an in-process stand-in for the remote API.
// Fields may be adjusted between requests; access is serialized internally.
type Backend struct {
	Server *httptest.Server

	mu sync.Mutex

	// Issued credential pair and optional one-time invite token
	AccessToken  string
	RefreshToken string
	InviteToken  string

	// Accepted username/password pairs
	Credentials map[string]string

	// Canned responses
	User       domain.User
	Overview   *domain.PartnerOverview // nil yields 404 on /partner/overview
	Lists      []domain.TodoList
	Activities []domain.Activity

	// Forced statuses; zero means normal behavior
	MeStatus      int
	PartnerStatus int
	LogoutStatus  int

	// Call counters
	LoginCalls    int
	RegisterCalls int
	LogoutCalls   int
	MeCalls       int
	PartnerCalls  int
}

// NewBackend starts a fake backend with one known user
func NewBackend() *Backend {
	b := &Backend{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		Credentials:  map[string]string{"alice": "hunter22"},
		User: domain.User{
			ID:        1,
			Username:  "alice",
			ColorCode: "#ff8da1",
		},
	}

	r := chi.NewRouter()
	r.Post("/auth/login", b.handleLogin)
	r.Post("/auth/register", b.handleRegister)
	r.Post("/auth/logout", b.handleLogout)
	r.Get("/users/me", b.handleMe)
	r.Get("/partner/overview", b.handlePartnerOverview)
	r.Get("/todolists", b.handleTodoLists)
	r.Get("/activities/recent", b.handleActivities)

	b.Server = httptest.NewServer(r)
	return b
}

// URL returns the backend origin
func (b *Backend) URL() string {
	return b.Server.URL
}

// Close shuts the backend down
func (b *Backend) Close() {
	b.Server.Close()
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.LoginCalls++

	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	if password, ok := b.Credentials[creds.Username]; !ok || password != creds.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, domain.AuthResponse{
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		UserID:       b.User.ID,
		Username:     creds.Username,
	})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.RegisterCalls++

	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	if _, exists := b.Credentials[req.Username]; exists {
		writeError(w, http.StatusConflict, "username taken")
		return
	}
	b.Credentials[req.Username] = req.Password

	resp := domain.AuthResponse{
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		UserID:       b.User.ID,
		Username:     req.Username,
	}
	// The registrant becomes the inviter only when not joining via invite.
	if req.InviteToken == "" {
		resp.InviteToken = b.InviteToken
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.LogoutCalls++

	if b.LogoutStatus != 0 {
		writeError(w, b.LogoutStatus, "logout rejected")
		return
	}

	var req domain.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh token required")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.MeCalls++

	if b.MeStatus != 0 {
		writeError(w, b.MeStatus, "forced failure")
		return
	}
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	writeJSON(w, http.StatusOK, b.User)
}

func (b *Backend) handlePartnerOverview(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.PartnerCalls++

	if b.PartnerStatus != 0 {
		writeError(w, b.PartnerStatus, "forced failure")
		return
	}
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	if b.Overview == nil {
		writeError(w, http.StatusNotFound, "no partner linked")
		return
	}

	writeJSON(w, http.StatusOK, b.Overview)
}

func (b *Backend) handleTodoLists(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	writeJSON(w, http.StatusOK, b.Lists)
}

func (b *Backend) handleActivities(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	activities := b.Activities
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if limit, err := strconv.Atoi(limitParam); err == nil && limit < len(activities) {
			activities = activities[:limit]
		}
	}
	if activities == nil {
		activities = []domain.Activity{}
	}

	writeJSON(w, http.StatusOK, activities)
}

func (b *Backend) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+b.AccessToken
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, domain.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
