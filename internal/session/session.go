// Package session owns the authenticated session: the current user, its
// optional partner enrichment, and the loading/error flags the UI renders
// from. It hides the two-call hydration (own profile plus partner overview)
// behind one coherent session object and exposes the mutating operations
// with consistent signaling.
package session

import (
	"net/url"

	"github.com/sinanfen/to-dogether-web-sub000/internal/domain"
)

// State is the session lifecycle state
type State string

const (
	// StateLoggedOut means no usable credential is held
	StateLoggedOut State = "logged_out"
	// StateHydrating means a persisted token was found and the session is
	// being populated from the backend
	StateHydrating State = "hydrating"
	// StateAuthenticated means the session holds a freshly fetched user
	StateAuthenticated State = "authenticated"
)

// Snapshot is one consistent view of the session, handed out whole so
// observers never see torn partial updates.
type Snapshot struct {
	State     State
	User      *domain.User
	Loading   bool
	LastError string
}

// Authenticated reports whether the snapshot holds a logged-in user
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}

// clone deep-copies the snapshot so observers cannot mutate manager state
func (s Snapshot) clone() Snapshot {
	out := s
	if s.User != nil {
		user := *s.User
		if user.Partner != nil {
			partner := *user.Partner
			user.Partner = &partner
		}
		out.User = &user
	}
	return out
}

// Listener observes session transitions. Listeners are invoked synchronously
// after every state change with a private snapshot copy.
type Listener func(Snapshot)

// Route is a navigation signal emitted toward the UI layer after a
// successful session mutation.
type Route struct {
	Path  string
	Query url.Values
}

// String renders the route as a path with optional query
func (r Route) String() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Well-known routes
var (
	RouteDashboard = Route{Path: "/dashboard"}
	RouteLogin     = Route{Path: "/login"}
	RouteWelcome   = Route{Path: "/welcome"}
)

// ShareInviteRoute carries a one-time partner invite token into the
// invite-sharing flow. The token travels verbatim as a query parameter so
// the receiving flow reads back the exact string the backend issued.
func ShareInviteRoute(inviteToken string) Route {
	return Route{
		Path:  "/share-invite",
		Query: url.Values{"invite": []string{inviteToken}},
	}
}

// Navigator receives navigation signals. UI layers implement it; headless
// consumers may ignore it.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(Route)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(route Route) {
	f(route)
}
