package session

import (
	"context"
	"errors"
	"sync"

	"github.com/sinanfen/to-dogether-web-sub000/internal/api"
	clientauth "github.com/sinanfen/to-dogether-web-sub000/internal/auth"
	"github.com/sinanfen/to-dogether-web-sub000/internal/domain"
	"github.com/sinanfen/to-dogether-web-sub000/internal/logger"
	"go.uber.org/zap"
)

// ErrOperationInFlight is returned when a session-mutating operation is
// invoked while another one is still running. Login, Register and
// RefreshUser reject the second call; Logout instead waits its turn because
// it must always complete.
var ErrOperationInFlight = errors.New("another session operation is in flight")

// Generic user-facing failure messages. Backend error details are logged,
// never surfaced near the form.
const (
	loginFailedMessage    = "Login failed. Please check your username and password."
	registerFailedMessage = "Registration failed. Please try again."
)

// Manager owns the session state. It is created once per application
// instance and passed by reference to consumers; there is no ambient global
// session.
type Manager struct {
	client    *api.Client
	logger    *zap.Logger
	navigator Navigator

	// op serializes session-mutating operations. Login/Register/RefreshUser
	// take it with TryLock and bail out when busy; Logout blocks on it.
	op sync.Mutex

	mu        sync.Mutex
	snap      Snapshot
	listeners []Listener
}

// Option configures a Manager
type Option func(*Manager)

// WithNavigator sets the navigation signal receiver
func WithNavigator(n Navigator) Option {
	return func(m *Manager) { m.navigator = n }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a session manager around the API client.
// The session starts logged out; call Hydrate to resume a persisted session.
func NewManager(client *api.Client, opts ...Option) *Manager {
	m := &Manager{
		client: client,
		logger: zap.NewNop(),
		snap:   Snapshot{State: StateLoggedOut},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a consistent copy of the current session state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.clone()
}

// OnChange registers a listener for session transitions. The returned
// function removes the listener again.
func (m *Manager) OnChange(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, l)
	idx := len(m.listeners) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.listeners[idx] = nil
	}
}

// Hydrate populates the session from a persisted access token. With no token
// the session settles into LoggedOut immediately; otherwise the user and
// partner fetches run and the session ends Authenticated or LoggedOut.
// Hydrate never returns an error: startup must always reach a usable state.
func (m *Manager) Hydrate(ctx context.Context) {
	if !m.op.TryLock() {
		return
	}
	defer m.op.Unlock()

	if !m.client.HasToken() {
		m.setSnapshot(Snapshot{State: StateLoggedOut})
		return
	}

	m.logTokenExpiry()
	m.setSnapshot(Snapshot{State: StateHydrating, Loading: true})

	user, err := m.hydrate(ctx)
	if err != nil {
		m.handleHydrationFailure(err)
		return
	}

	logger.WithUser(m.logger, user.ID, user.Username).Info("session resumed from persisted token")
	m.setSnapshot(Snapshot{State: StateAuthenticated, User: user})
}

// Login authenticates and hydrates the session. On success the session is
// Authenticated and the navigator is pointed at the dashboard. On failure
// the session stays LoggedOut, a user-facing error message is recorded, and
// the error is returned so calling UI code can react.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) error {
	if !m.op.TryLock() {
		return ErrOperationInFlight
	}
	defer m.op.Unlock()

	m.setSnapshot(Snapshot{State: StateLoggedOut, Loading: true})

	if _, err := m.client.Login(ctx, creds); err != nil {
		m.logger.Warn("login failed", zap.Error(err))
		m.setSnapshot(Snapshot{State: StateLoggedOut, LastError: loginFailedMessage})
		return err
	}

	user, err := m.hydrate(ctx)
	if err != nil {
		m.logger.Warn("post-login hydration failed", zap.Error(err))
		m.setSnapshot(Snapshot{State: StateLoggedOut, LastError: loginFailedMessage})
		return err
	}

	m.setSnapshot(Snapshot{State: StateAuthenticated, User: user})
	m.navigate(RouteDashboard)
	return nil
}

// Register creates an account and hydrates the session. On success the
// navigator is pointed at the invite-sharing flow when the backend issued a
// partner invite token, or at the welcome route otherwise. Failure behaves
// like Login's failure path.
func (m *Manager) Register(ctx context.Context, req domain.RegisterRequest) error {
	if !m.op.TryLock() {
		return ErrOperationInFlight
	}
	defer m.op.Unlock()

	m.setSnapshot(Snapshot{State: StateLoggedOut, Loading: true})

	resp, err := m.client.Register(ctx, req)
	if err != nil {
		m.logger.Warn("registration failed", zap.Error(err))
		m.setSnapshot(Snapshot{State: StateLoggedOut, LastError: registerFailedMessage})
		return err
	}

	user, err := m.hydrate(ctx)
	if err != nil {
		m.logger.Warn("post-registration hydration failed", zap.Error(err))
		m.setSnapshot(Snapshot{State: StateLoggedOut, LastError: registerFailedMessage})
		return err
	}

	m.setSnapshot(Snapshot{State: StateAuthenticated, User: user})

	if resp.InviteToken != "" {
		m.navigate(ShareInviteRoute(resp.InviteToken))
	} else {
		m.navigate(RouteWelcome)
	}
	return nil
}

// Logout tears the session down. The server-side invalidation is best-effort
// inside the API client; locally the session always reaches LoggedOut and
// the navigator is pointed at the login entry, even when the backend is
// unreachable. Logout never returns an error.
func (m *Manager) Logout(ctx context.Context) {
	m.op.Lock()
	defer m.op.Unlock()

	if err := m.client.Logout(ctx); err != nil {
		// Keystore trouble; the in-memory token is gone either way.
		m.logger.Warn("failed to clear persisted credentials on logout", zap.Error(err))
	}

	m.setSnapshot(Snapshot{State: StateLoggedOut})
	m.navigate(RouteLogin)
}

// RefreshUser re-runs the hydration and replaces the cached user in place.
// Without a held token it leaves the session LoggedOut. On hydration failure
// the session degrades to LoggedOut. RefreshUser never returns an error and
// is a no-op while another operation is in flight.
func (m *Manager) RefreshUser(ctx context.Context) {
	if !m.op.TryLock() {
		return
	}
	defer m.op.Unlock()

	if !m.client.HasToken() {
		m.setSnapshot(Snapshot{State: StateLoggedOut})
		return
	}

	m.setLoading(true)

	user, err := m.hydrate(ctx)
	if err != nil {
		m.logger.Warn("session refresh failed", zap.Error(err))
		m.handleHydrationFailure(err)
		return
	}

	m.setSnapshot(Snapshot{State: StateAuthenticated, User: user})
}

// hydrate issues the current-user and partner-overview fetches concurrently
// and waits for both to settle. The user fetch is required; the partner
// fetch is optional enrichment, its failure simply yields no partner.
func (m *Manager) hydrate(ctx context.Context) (*domain.User, error) {
	var (
		wg         sync.WaitGroup
		user       *domain.User
		userErr    error
		overview   *domain.PartnerOverview
		partnerErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		user, userErr = m.client.CurrentUser(ctx)
	}()
	go func() {
		defer wg.Done()
		overview, partnerErr = m.client.PartnerOverview(ctx)
	}()
	wg.Wait()

	if userErr != nil {
		return nil, userErr
	}

	if partnerErr != nil {
		// Expected when no partner is linked yet.
		m.logger.Debug("partner overview unavailable", zap.Error(partnerErr))
	} else {
		user.Partner = domain.PartnerFromOverview(overview)
	}

	return user, nil
}

// handleHydrationFailure settles the session into LoggedOut after the
// required user fetch failed. A definitive 401/403 means the stored token is
// invalid, so it is cleared rather than retried on every startup; transient
// network or server failures keep the token for a later attempt.
func (m *Manager) handleHydrationFailure(err error) {
	if domain.IsAuthError(err) {
		m.logger.Info("stored access token rejected, clearing credentials")
		if clearErr := m.client.ClearToken(); clearErr != nil {
			m.logger.Warn("failed to clear rejected credentials", zap.Error(clearErr))
		}
	}
	m.setSnapshot(Snapshot{State: StateLoggedOut})
}

// logTokenExpiry records the stored token's unverified expiry claim before a
// hydration attempt, which makes expired-token round trips visible in logs.
func (m *Manager) logTokenExpiry() {
	info, err := clientauth.Inspect(m.client.AccessToken())
	if err != nil {
		return
	}
	if !info.ExpiresAt.IsZero() {
		m.logger.Debug("hydrating from persisted token",
			zap.Time("token_expires_at", info.ExpiresAt),
		)
	}
}

// setSnapshot replaces the session state and notifies listeners with a
// consistent copy. Listeners run outside the state lock so they may call
// Snapshot without deadlocking; mutating operations are serialized, so
// notification order matches transition order.
func (m *Manager) setSnapshot(snap Snapshot) {
	m.mu.Lock()
	m.snap = snap
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	snapshot := snap.clone()
	m.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l(snapshot)
		}
	}
}

// setLoading flips only the loading flag, preserving the rest of the state
func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	snap := m.snap
	snap.Loading = loading
	m.snap = snap
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	snapshot := snap.clone()
	m.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l(snapshot)
		}
	}
}

func (m *Manager) navigate(route Route) {
	if m.navigator == nil {
		return
	}
	m.logger.Debug("navigating", zap.String("route", route.String()))
	m.navigator.Navigate(route)
}
