package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
)

func TestIdentity_WithMethods(t *testing.T) {
	principal := &model.Principal{ID: 1, Username: "admin", IsAdmin: true}

	id := Anonymous("192.168.1.100").
		WithSession("sid").
		WithPrincipal(principal).
		WithRequestID("req-1")

	assert.Equal(t, "192.168.1.100", id.RemoteIP)
	assert.Equal(t, "sid", id.SessionID)
	assert.Equal(t, principal, id.Principal)
	assert.Equal(t, "req-1", id.RequestID)
}

func TestIdentity_Authenticated(t *testing.T) {
	tests := []struct {
		name     string
		id       *Identity
		expected bool
		username string
	}{
		{
			name:     "nil identity",
			id:       nil,
			expected: false,
		},
		{
			name:     "guest session",
			id:       Anonymous("10.0.0.1").WithSession("guest"),
			expected: false,
		},
		{
			name:     "with principal",
			id:       Anonymous("10.0.0.1").WithPrincipal(&model.Principal{Username: "admin"}),
			expected: true,
			username: "admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.id.Authenticated())
			assert.Equal(t, tt.username, tt.id.Username())
		})
	}
}

func TestContextGetSet(t *testing.T) {
	ctx := context.Background()

	// Initially no identity
	id, ok := Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, id)
	assert.Empty(t, RemoteIP(ctx))

	expected := Anonymous("10.1.2.3").WithSession("abc")
	ctx = Set(ctx, expected)

	id, ok = Get(ctx)
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, "abc", id.SessionID)
	assert.Equal(t, "10.1.2.3", RemoteIP(ctx))
}
