package service

import (
	"context"
	"testing"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToken(userID uuid.UUID, token string) *models.FcmToken {
	return &models.FcmToken{UserID: userID, Token: token}
}

func TestPermissionLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := NewTokenService(fakeTokens{db}, fakeProfiles{db})
	u := db.addProfile("u", domain.RoleMember, domain.ProfileStatusActive)

	st, err := svc.GetPushPermission(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, st.ShouldPrompt)

	_, err = svc.SetPushPermission(ctx, u.ID, domain.PushPermissionDenied)
	require.NoError(t, err)
	st, err = svc.GetPushPermission(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, &PermissionState{Permission: domain.PushPermissionDenied}, st)

	_, err = svc.SetPushPermission(ctx, u.ID, domain.PushPermissionDefault)
	assert.ErrorIs(t, err, ErrInvalidInput, "a denial cannot be reset to prompt again")
}

func TestRegisterTokenGrantsAndKeepsDevices(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := NewTokenService(fakeTokens{db}, fakeProfiles{db})
	u := db.addProfile("u", domain.RoleMember, domain.ProfileStatusActive)

	_, err := svc.RegisterToken(ctx, u.ID, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, tok := range []string{"phone", "laptop", "phone"} {
		_, err := svc.RegisterToken(ctx, u.ID, tok, "device")
		require.NoError(t, err)
	}
	list, err := svc.ListTokens(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	st, err := svc.GetPushPermission(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PushPermissionGranted, st.Permission)
	assert.False(t, st.ShouldPrompt)

	require.NoError(t, svc.UnregisterToken(ctx, u.ID, "phone"))
	list, err = svc.ListTokens(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "laptop", list[0].Token)
}
