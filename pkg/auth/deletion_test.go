package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/petition-in-go/pkg/identity"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store/mocks"
)

func TestDeleteByID_DeniesWithoutTouchingRepository(t *testing.T) {
	tests := []struct {
		name    string
		session func(f *gateFixture) string
	}{
		{
			name:    "no session",
			session: func(*gateFixture) string { return "" },
		},
		{
			name:    "unknown session",
			session: func(*gateFixture) string { return "forged" },
		},
		{
			name: "guest session",
			session: func(f *gateFixture) string {
				id, _ := f.sessions.Create(context.Background(), 0)
				return id
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(t)
			signatures := mocks.NewMockSignaturesStore()
			deletion := NewDeletionGate(f.gate, signatures)

			result, err := deletion.DeleteByID(context.Background(), tt.session(f), 7)
			require.NoError(t, err)
			assert.Equal(t, Unauthorized, result)

			signatures.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			assert.Equal(t, []string{"delete"}, f.auditor.messageIDs())
		})
	}
}

func TestDeleteByID_Authenticated(t *testing.T) {
	f := newGateFixture(t)
	ctx := identity.Set(context.Background(), identity.Anonymous("10.0.0.1"))

	id, err := f.sessions.Create(ctx, admin.ID)
	require.NoError(t, err)
	f.principals.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	signatures := mocks.NewMockSignaturesStore()
	signatures.On("Delete", mock.Anything, uint(7)).Return(nil).Twice()
	deletion := NewDeletionGate(f.gate, signatures)

	// Deleting twice is idempotent
	for i := 0; i < 2; i++ {
		result, err := deletion.DeleteByID(ctx, id, 7)
		require.NoError(t, err)
		assert.Equal(t, Deleted, result)
	}

	signatures.AssertExpectations(t)
}

func TestDeleteByID_RepositoryFailure(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	id, err := f.sessions.Create(ctx, admin.ID)
	require.NoError(t, err)
	f.principals.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	signatures := mocks.NewMockSignaturesStore()
	signatures.On("Delete", mock.Anything, uint(7)).Return(errors.New("connection reset"))
	deletion := NewDeletionGate(f.gate, signatures)

	result, err := deletion.DeleteByID(ctx, id, 7)
	assert.Error(t, err)
	assert.Equal(t, Unauthorized, result)
}

func TestDeleteByID_ResolveFailureFailsClosed(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	id, err := f.sessions.Create(ctx, admin.ID)
	require.NoError(t, err)
	f.principals.On("FindByID", mock.Anything, admin.ID).Return(nil, errors.New("timeout"))

	signatures := mocks.NewMockSignaturesStore()
	deletion := NewDeletionGate(f.gate, signatures)

	result, err := deletion.DeleteByID(ctx, id, 7)
	assert.Error(t, err)
	assert.Equal(t, Unauthorized, result)
	signatures.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeletionResultString(t *testing.T) {
	assert.Equal(t, "deleted", Deleted.String())
	assert.Equal(t, "unauthorized", Unauthorized.String())
}
