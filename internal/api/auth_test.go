package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/sinanfen/to-dogether-web-sub000/internal/domain"
	"github.com/sinanfen/to-dogether-web-sub000/internal/keystore"
	"github.com/sinanfen/to-dogether-web-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	t.Run("valid credentials store both tokens", func(t *testing.T) {
		store := keystore.NewMemoryStore()
		client := newTestClient(t, backend.URL(), store)

		resp, err := client.Login(context.Background(), domain.Credentials{
			Username: "alice",
			Password: "hunter22",
		})
		require.NoError(t, err)
		assert.Equal(t, backend.AccessToken, resp.AccessToken)
		assert.Equal(t, "alice", resp.Username)

		pair, err := store.Pair()
		require.NoError(t, err)
		assert.Equal(t, backend.AccessToken, pair.Access)
		assert.Equal(t, backend.RefreshToken, pair.Refresh)
		assert.True(t, client.HasToken())
	})

	t.Run("invalid credentials persist nothing", func(t *testing.T) {
		store := keystore.NewMemoryStore()
		client := newTestClient(t, backend.URL(), store)

		_, err := client.Login(context.Background(), domain.Credentials{
			Username: "alice",
			Password: "wrong-password",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, domain.StatusOf(err))
		assert.True(t, domain.IsAuthError(err))

		pair, err := store.Pair()
		require.NoError(t, err)
		assert.Empty(t, pair.Access)
		assert.Empty(t, pair.Refresh)
		assert.False(t, client.HasToken())
	})

	t.Run("rejected locally before the request", func(t *testing.T) {
		client := newTestClient(t, backend.URL(), keystore.NewMemoryStore())
		calls := backend.LoginCalls

		_, err := client.Login(context.Background(), domain.Credentials{
			Username: "al", // too short
			Password: "hunter22",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, calls, backend.LoginCalls, "invalid payload never reaches the backend")
	})
}

func TestClient_Register(t *testing.T) {
	t.Run("inviter receives a one-time invite token", func(t *testing.T) {
		backend := testutil.NewBackend()
		defer backend.Close()
		backend.InviteToken = "invite-xyz-789"

		store := keystore.NewMemoryStore()
		client := newTestClient(t, backend.URL(), store)

		resp, err := client.Register(context.Background(), domain.RegisterRequest{
			Username:  "bob42",
			Password:  "sekret99",
			ColorCode: "#3366ff",
		})
		require.NoError(t, err)
		assert.Equal(t, "invite-xyz-789", resp.InviteToken)

		pair, err := store.Pair()
		require.NoError(t, err)
		assert.Equal(t, backend.AccessToken, pair.Access)
		assert.Equal(t, backend.RefreshToken, pair.Refresh)
	})

	t.Run("joining via invite yields no new invite token", func(t *testing.T) {
		backend := testutil.NewBackend()
		defer backend.Close()
		backend.InviteToken = "invite-xyz-789"

		client := newTestClient(t, backend.URL(), keystore.NewMemoryStore())

		resp, err := client.Register(context.Background(), domain.RegisterRequest{
			Username:    "carol7",
			Password:    "sekret99",
			InviteToken: "invite-xyz-789",
		})
		require.NoError(t, err)
		assert.Empty(t, resp.InviteToken)
	})

	t.Run("invalid color rejected locally", func(t *testing.T) {
		backend := testutil.NewBackend()
		defer backend.Close()

		client := newTestClient(t, backend.URL(), keystore.NewMemoryStore())

		_, err := client.Register(context.Background(), domain.RegisterRequest{
			Username:  "dave99",
			Password:  "sekret99",
			ColorCode: "not-a-color",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestClient_CurrentUser(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	t.Run("authenticated", func(t *testing.T) {
		store := keystore.NewMemoryStore()
		require.NoError(t, store.StoreAccess(backend.AccessToken))
		client := newTestClient(t, backend.URL(), store)

		user, err := client.CurrentUser(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Nil(t, user.Partner, "profile endpoint carries no partner enrichment")
	})

	t.Run("without token", func(t *testing.T) {
		client := newTestClient(t, backend.URL(), keystore.NewMemoryStore())

		_, err := client.CurrentUser(context.Background())
		require.Error(t, err)
		assert.True(t, domain.IsAuthError(err))
	})
}

func TestClient_PartnerOverview(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	store := keystore.NewMemoryStore()
	require.NoError(t, store.StoreAccess(backend.AccessToken))
	client := newTestClient(t, backend.URL(), store)

	t.Run("no partner linked", func(t *testing.T) {
		_, err := client.PartnerOverview(context.Background())
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("partner linked", func(t *testing.T) {
		backend.Overview = &domain.PartnerOverview{
			ID:        2,
			Username:  "bob",
			ColorCode: "#3366ff",
			TodoLists: []domain.TodoList{{ID: 10, Title: "Groceries"}},
		}

		overview, err := client.PartnerOverview(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "bob", overview.Username)
		assert.Len(t, overview.TodoLists, 1)
	})
}

func TestClient_Logout(t *testing.T) {
	t.Run("notifies the backend and clears tokens", func(t *testing.T) {
		backend := testutil.NewBackend()
		defer backend.Close()

		store := keystore.NewMemoryStore()
		client := newTestClient(t, backend.URL(), store)
		_, err := client.Login(context.Background(), domain.Credentials{Username: "alice", Password: "hunter22"})
		require.NoError(t, err)

		require.NoError(t, client.Logout(context.Background()))
		assert.Equal(t, 1, backend.LogoutCalls)
		assert.False(t, client.HasToken())

		pair, err := store.Pair()
		require.NoError(t, err)
		assert.Equal(t, keystore.Pair{}, pair)
	})

	t.Run("server failure is swallowed, tokens still cleared", func(t *testing.T) {
		backend := testutil.NewBackend()
		defer backend.Close()

		store := keystore.NewMemoryStore()
		client := newTestClient(t, backend.URL(), store)
		_, err := client.Login(context.Background(), domain.Credentials{Username: "alice", Password: "hunter22"})
		require.NoError(t, err)

		backend.LogoutStatus = http.StatusInternalServerError

		require.NoError(t, client.Logout(context.Background()))
		assert.False(t, client.HasToken())

		pair, err := store.Pair()
		require.NoError(t, err)
		assert.Equal(t, keystore.Pair{}, pair)
	})

	t.Run("backend unreachable, tokens still cleared", func(t *testing.T) {
		backend := testutil.NewBackend()

		store := keystore.NewMemoryStore()
		client := newTestClient(t, backend.URL(), store)
		_, err := client.Login(context.Background(), domain.Credentials{Username: "alice", Password: "hunter22"})
		require.NoError(t, err)

		backend.Close()

		require.NoError(t, client.Logout(context.Background()))
		assert.False(t, client.HasToken())
	})

	t.Run("no refresh token skips the server call", func(t *testing.T) {
		backend := testutil.NewBackend()
		defer backend.Close()

		client := newTestClient(t, backend.URL(), keystore.NewMemoryStore())

		require.NoError(t, client.Logout(context.Background()))
		assert.Equal(t, 0, backend.LogoutCalls)
	})
}
