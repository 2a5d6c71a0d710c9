package api

import (
	"context"
	"net/http"

	"github.com/sinanfen/to-dogether-web-sub000/internal/domain"
	"go.uber.org/zap"
)

// Login authenticates with the backend and stores both returned tokens:
// the refresh token directly in the keystore, the access token through
// SetToken so it is attached to all subsequent requests.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	resp, err := do[domain.AuthResponse](ctx, c, http.MethodPost, "/auth/login", creds)
	if err != nil {
		return nil, err
	}

	if err := c.storeAuthResponse(&resp); err != nil {
		return nil, err
	}

	c.logger.Info("login succeeded", zap.String("username", creds.Username))
	return &resp, nil
}

// Register creates an account and stores the returned tokens like Login.
// When the registrant became the inviter of a new couple, the response
// carries a one-time partner invite token for the post-registration flow.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := do[domain.AuthResponse](ctx, c, http.MethodPost, "/auth/register", req)
	if err != nil {
		return nil, err
	}

	if err := c.storeAuthResponse(&resp); err != nil {
		return nil, err
	}

	c.logger.Info("registration succeeded",
		zap.String("username", req.Username),
		zap.Bool("invite_issued", resp.InviteToken != ""),
	)
	return &resp, nil
}

// CurrentUser fetches the authenticated user's own profile.
// Fails with a 401-class transport error when no valid token is attached.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	user, err := do[domain.User](ctx, c, http.MethodGet, "/users/me", nil)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PartnerOverview fetches the linked partner's identity and visible lists.
// When the user has no partner the backend responds non-2xx; callers treat
// that as "no partner", not as a hard error.
func (c *Client) PartnerOverview(ctx context.Context) (*domain.PartnerOverview, error) {
	overview, err := do[domain.PartnerOverview](ctx, c, http.MethodGet, "/partner/overview", nil)
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

// Logout invalidates the session server-side on a best-effort basis and
// always clears the local credentials. A failing backend call is logged and
// swallowed: server-side invalidation is not allowed to block local logout,
// so the client reaches a logged-out state even when offline.
func (c *Client) Logout(ctx context.Context) error {
	pair, err := c.store.Pair()
	if err != nil {
		c.logger.Warn("failed to load refresh token for logout", zap.Error(err))
	}

	if pair.Refresh != "" {
		_, err := do[struct{}](ctx, c, http.MethodPost, "/auth/logout", domain.LogoutRequest{
			RefreshToken: pair.Refresh,
		})
		if err != nil {
			c.logger.Warn("server-side logout failed, clearing local session anyway", zap.Error(err))
		}
	}

	return c.ClearToken()
}

func (c *Client) storeAuthResponse(resp *domain.AuthResponse) error {
	if err := c.store.StoreRefresh(resp.RefreshToken); err != nil {
		return err
	}
	return c.SetToken(resp.AccessToken)
}
