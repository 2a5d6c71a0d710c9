package domain_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sinanfen/to-dogether-web-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name    string
		creds   domain.Credentials
		wantErr bool
	}{
		{
			name:  "valid",
			creds: domain.Credentials{Username: "alice", Password: "hunter22"},
		},
		{
			name:    "missing username",
			creds:   domain.Credentials{Password: "hunter22"},
			wantErr: true,
		},
		{
			name:    "username too short",
			creds:   domain.Credentials{Username: "al", Password: "hunter22"},
			wantErr: true,
		},
		{
			name:    "password too short",
			creds:   domain.Credentials{Username: "alice", Password: "short"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.RegisterRequest
		wantErr bool
	}{
		{
			name: "valid with color",
			req:  domain.RegisterRequest{Username: "bob42", Password: "sekret99", ColorCode: "#3366ff"},
		},
		{
			name: "valid without color",
			req:  domain.RegisterRequest{Username: "bob42", Password: "sekret99"},
		},
		{
			name:    "bad color",
			req:     domain.RegisterRequest{Username: "bob42", Password: "sekret99", ColorCode: "blue"},
			wantErr: true,
		},
		{
			name:    "non-alphanumeric username",
			req:     domain.RegisterRequest{Username: "bob 42!", Password: "sekret99"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	t.Run("status helpers", func(t *testing.T) {
		err := error(&domain.TransportError{Status: http.StatusUnauthorized, Message: "nope"})
		assert.Equal(t, http.StatusUnauthorized, domain.StatusOf(err))
		assert.True(t, domain.IsAuthError(err))
		assert.False(t, domain.IsNotFound(err))
	})

	t.Run("wrapped errors are still recognized", func(t *testing.T) {
		inner := &domain.TransportError{Status: http.StatusNotFound}
		wrapped := errors.Join(errors.New("fetching partner"), inner)
		assert.True(t, domain.IsNotFound(wrapped))
	})

	t.Run("unrelated errors carry no status", func(t *testing.T) {
		assert.Equal(t, 0, domain.StatusOf(errors.New("plain")))
		assert.False(t, domain.IsAuthError(nil))
	})

	t.Run("message rendering", func(t *testing.T) {
		withStatus := &domain.TransportError{Status: 502, Message: "bad gateway"}
		assert.Contains(t, withStatus.Error(), "502")
		assert.Contains(t, withStatus.Error(), "bad gateway")

		network := &domain.TransportError{Message: "connection refused"}
		assert.Contains(t, network.Error(), "connection refused")
	})
}

func TestPartnerFromOverview(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	overview := &domain.PartnerOverview{
		ID:        2,
		Username:  "bob",
		ColorCode: "#3366ff",
		CreatedAt: created,
		TodoLists: []domain.TodoList{{ID: 10, Title: "Groceries"}},
	}

	partner := domain.PartnerFromOverview(overview)
	require.NotNil(t, partner)
	assert.Equal(t, int64(2), partner.ID)
	assert.Equal(t, "bob", partner.Username)
	assert.Equal(t, created, partner.CreatedAt)

	assert.Nil(t, domain.PartnerFromOverview(nil))
}
