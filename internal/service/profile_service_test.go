package service

import (
	"context"
	"strings"
	"testing"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/pkg/imaging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfilePermissions(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := NewProfileService(fakeProfiles{db}, nil)
	admin := db.addProfile("admin", domain.RoleAdmin, domain.ProfileStatusActive)
	alice := db.addProfile("alice", domain.RoleMember, domain.ProfileStatusActive)
	bob := db.addProfile("bob", domain.RoleMember, domain.ProfileStatusActive)

	p, err := svc.UpdateProfile(ctx, alice.Actor(), alice.ID, UpdateProfileInput{
		Phone:          strPtr(" 01700000000 "),
		CourierAddress: strPtr("Rajshahi"),
	})
	require.NoError(t, err)
	assert.Equal(t, "01700000000", p.Phone)
	assert.Equal(t, "Rajshahi", p.CourierAddress)
	assert.Equal(t, "alice", p.FullName)

	_, err = svc.UpdateProfile(ctx, bob.Actor(), alice.ID, UpdateProfileInput{FullName: strPtr("mallory")})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.UpdateProfile(ctx, alice.Actor(), alice.ID, UpdateProfileInput{FullName: strPtr(" ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err = svc.UpdateProfile(ctx, admin.Actor(), alice.ID, UpdateProfileInput{FullName: strPtr("Alice R.")})
	require.NoError(t, err)
	assert.Equal(t, "Alice R.", p.FullName)
}

func TestAdminStatusAndRole(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := NewProfileService(fakeProfiles{db}, nil)
	admin := db.addProfile("admin", domain.RoleAdmin, domain.ProfileStatusActive)
	pending := db.addProfile("new", domain.RoleMember, domain.ProfileStatusPending)

	p, err := svc.SetStatus(ctx, admin.Actor(), pending.ID, domain.ProfileStatusActive)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileStatusActive, p.Status)

	_, err = svc.SetStatus(ctx, pending.Actor(), admin.ID, domain.ProfileStatusSuspended)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.SetStatus(ctx, admin.Actor(), admin.ID, domain.ProfileStatusSuspended)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SetStatus(ctx, admin.Actor(), pending.ID, "banned")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SetStatus(ctx, admin.Actor(), uuid.New(), domain.ProfileStatusActive)
	assert.ErrorIs(t, err, ErrNotFound)

	p, err = svc.SetRole(ctx, admin.Actor(), pending.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, p.Role)
	_, err = svc.SetRole(ctx, admin.Actor(), admin.ID, domain.RoleMember)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteProfileCascades(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := NewProfileService(fakeProfiles{db}, nil)
	admin := db.addProfile("admin", domain.RoleAdmin, domain.ProfileStatusActive)
	member := db.addProfile("member", domain.RoleMember, domain.ProfileStatusActive)
	v := db.addVariety("Kyoho", true)
	db.setStock(member.ID, v.ID, 4)

	assert.ErrorIs(t, svc.DeleteProfile(ctx, member.Actor(), admin.ID), ErrForbidden)
	assert.ErrorIs(t, svc.DeleteProfile(ctx, admin.Actor(), admin.ID), ErrInvalidInput)

	require.NoError(t, svc.DeleteProfile(ctx, admin.Actor(), member.ID))
	_, err := svc.GetProfile(ctx, member.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, -1, db.quantity(member.ID, v.ID))
	_, err = fakeCatalog{db}.GetVariety(ctx, v.ID)
	assert.NoError(t, err, "varieties outlive their holders")
}

func TestUploadAvatar(t *testing.T) {
	db := newMemDB()
	images := &stubUploader{}
	svc := NewProfileService(fakeProfiles{db}, images)
	u := db.addProfile("u", domain.RoleMember, domain.ProfileStatusActive)

	p, err := svc.UploadAvatar(context.Background(), u.ID, strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/img.jpg", p.ProfileImage)
	assert.Equal(t, []imaging.Options{imaging.AvatarOptions}, images.opts)
}

func TestListProfilesRejectsUnknownStatus(t *testing.T) {
	svc := NewProfileService(fakeProfiles{newMemDB()}, nil)
	_, _, err := svc.ListProfiles(context.Background(), "", "frozen", 1, 20)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStatusCountsAreZeroFilled(t *testing.T) {
	db := newMemDB()
	db.addProfile("a", domain.RoleAdmin, domain.ProfileStatusActive)
	db.addProfile("b", domain.RoleMember, domain.ProfileStatusPending)
	db.addProfile("c", domain.RoleMember, domain.ProfileStatusPending)

	counts, err := NewProfileService(fakeProfiles{db}, nil).StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		domain.ProfileStatusActive:    1,
		domain.ProfileStatusPending:   2,
		domain.ProfileStatusSuspended: 0,
	}, counts)
}
