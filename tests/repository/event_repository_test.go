package repository_test

import (
	"context"
	"testing"

	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/repository"
	"github.com/epicevents/crm-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEventRepository(db)

	sales := testutil.CreateTestUser(t, db, domain.RoleSales)
	supportA := testutil.CreateTestUser(t, db, domain.RoleSupport)
	supportB := testutil.CreateTestUser(t, db, domain.RoleSupport)
	client := testutil.CreateTestClient(t, db, sales.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, sales.ID, domain.ContractStatusSigned)

	assignedA := testutil.CreateTestEvent(t, db, contract)
	assignedB := testutil.CreateTestEvent(t, db, contract)
	unassigned := testutil.CreateTestEvent(t, db, contract)

	require.NoError(t, db.Model(assignedA).Update("support_contact_id", supportA.ID).Error)
	require.NoError(t, db.Model(assignedB).Update("support_contact_id", supportB.ID).Error)

	t.Run("no filters", func(t *testing.T) {
		events, err := repo.List(context.Background(), repository.EventFilters{})
		require.NoError(t, err)
		assert.Len(t, events, 3)
		require.NotNil(t, events[0].Client)
		require.NotNil(t, events[0].SalesContact)
	})

	t.Run("by support contact", func(t *testing.T) {
		events, err := repo.List(context.Background(), repository.EventFilters{
			SupportContactID: supportA.ID,
		})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, assignedA.ID, events[0].ID)
		require.NotNil(t, events[0].SupportContact)
		assert.Equal(t, supportA.ID, events[0].SupportContact.ID)
	})

	t.Run("unassigned only", func(t *testing.T) {
		events, err := repo.List(context.Background(), repository.EventFilters{
			Unassigned: true,
		})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, unassigned.ID, events[0].ID)
		assert.Nil(t, events[0].SupportContactID)
	})
}

func TestEventRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEventRepository(db)

	sales := testutil.CreateTestUser(t, db, domain.RoleSales)
	client := testutil.CreateTestClient(t, db, sales.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, sales.ID, domain.ContractStatusSigned)
	event := testutil.CreateTestEvent(t, db, contract)

	found, err := repo.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Title, found.Title)
	require.NotNil(t, found.Client)
	assert.Equal(t, client.ID, found.Client.ID)

	_, err = repo.GetByID(context.Background(), 9999)
	assert.Error(t, err)
}
