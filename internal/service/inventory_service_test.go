package service

import (
	"context"
	"testing"

	"grapebd/g2g/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrIncrementStock(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := NewInventoryService(fakeStocks{db}, fakeCatalog{db})
	alice := db.addProfile("alice", domain.RoleMember, domain.ProfileStatusActive)
	grape := db.addVariety("Grape", true)

	st, err := svc.AddOrIncrementStock(ctx, alice.ID, grape.ID, 3, "from the nursery")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Quantity)

	st, err = svc.AddOrIncrementStock(ctx, alice.ID, grape.ID, 2, "  second batch ")
	require.NoError(t, err)
	assert.Equal(t, 5, st.Quantity)
	assert.Equal(t, "second batch", st.Notes, "notes are replaced, not merged")
	assert.Equal(t, "Grape", st.Variety.Name)

	for _, bad := range []int{0, -1} {
		_, err = svc.AddOrIncrementStock(ctx, alice.ID, grape.ID, bad, "")
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Equal(t, 5, db.quantity(alice.ID, grape.ID))

	_, err = svc.AddOrIncrementStock(ctx, alice.ID, uuid.New(), 1, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.AddOrIncrementStock(ctx, alice.ID, db.addVariety("Retired", false).ID, 1, "")
	assert.ErrorIs(t, err, ErrInactive)
}

func TestUpdateAndDeleteStock(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc := NewInventoryService(fakeStocks{db}, fakeCatalog{db})
	alice := db.addProfile("alice", domain.RoleMember, domain.ProfileStatusActive)
	bob := db.addProfile("bob", domain.RoleMember, domain.ProfileStatusActive)
	admin := db.addProfile("admin", domain.RoleAdmin, domain.ProfileStatusActive)
	grape := db.addVariety("Grape", true)
	row := db.setStock(alice.ID, grape.ID, 4)

	_, err := svc.UpdateStock(ctx, alice.Actor(), row.ID, -1, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.UpdateStock(ctx, bob.Actor(), row.ID, 1, "")
	assert.ErrorIs(t, err, ErrForbidden)

	st, err := svc.UpdateStock(ctx, alice.Actor(), row.ID, 0, "gave them away")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Quantity)

	list, err := svc.ListStock(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "empty rows are hidden")

	assert.ErrorIs(t, svc.DeleteStock(ctx, bob.Actor(), row.ID), ErrForbidden)
	require.NoError(t, svc.DeleteStock(ctx, admin.Actor(), row.ID))
	assert.ErrorIs(t, svc.DeleteStock(ctx, admin.Actor(), row.ID), ErrNotFound)
}
