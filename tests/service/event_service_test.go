package service_test

import (
	"testing"

	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/repository"
	"github.com/epicevents/crm-api/internal/service"
	"github.com/epicevents/crm-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newEventService(db *gorm.DB) *service.EventService {
	return service.NewEventService(
		repository.NewEventRepository(db),
		repository.NewContractRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
}

func TestEventService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newEventService(db)

	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	owner := testutil.CreateTestUser(t, db, domain.RoleSales)
	otherSales := testutil.CreateTestUser(t, db, domain.RoleSales)
	client := testutil.CreateTestClient(t, db, owner.ID)
	signed := testutil.CreateTestContract(t, db, client.ID, owner.ID, domain.ContractStatusSigned)
	pending := testutil.CreateTestContract(t, db, client.ID, owner.ID, domain.ContractStatusPending)

	req := &domain.CreateEventRequest{
		Title:      "John Ouick Wedding",
		ContractID: signed.ID,
		EventStart: "2026-06-04 13:00:00",
		EventEnd:   "2026-06-05 02:00:00",
		Location:   "53 Rue du Château, Candé-sur-Beuvron",
		Attendees:  75,
		Notes:      "Wedding starts at 3PM, by the river.",
	}

	t.Run("owning sales creates under a signed contract", func(t *testing.T) {
		dto, err := svc.Create(testutil.AuthContext(owner), req)
		require.NoError(t, err)
		assert.Equal(t, "John Ouick Wedding", dto.Title)
		assert.Equal(t, signed.ID, dto.Contract)
		assert.Equal(t, "2026-06-04 13:00:00", dto.EventStart)
		assert.Equal(t, "2026-06-05 02:00:00", dto.EventEnd)
		assert.Nil(t, dto.SupportContact)

		// client and sales contact come from the contract, not the request
		require.NotNil(t, dto.Client)
		assert.Equal(t, client.ID, dto.Client.ID)
		require.NotNil(t, dto.SalesContact)
		assert.Equal(t, owner.ID, dto.SalesContact.ID)
	})

	t.Run("unsigned contract blocks creation", func(t *testing.T) {
		bad := *req
		bad.ContractID = pending.ID
		_, err := svc.Create(testutil.AuthContext(owner), &bad)
		assert.ErrorIs(t, err, service.ErrPreconditionFailed)
	})

	t.Run("admin is denied", func(t *testing.T) {
		_, err := svc.Create(testutil.AuthContext(admin), req)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("non-owning sales fails the contract-owner precondition", func(t *testing.T) {
		_, err := svc.Create(testutil.AuthContext(otherSales), req)
		assert.ErrorIs(t, err, service.ErrPreconditionFailed)
	})

	t.Run("unknown contract", func(t *testing.T) {
		bad := *req
		bad.ContractID = 9999
		_, err := svc.Create(testutil.AuthContext(owner), &bad)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("malformed start time", func(t *testing.T) {
		bad := *req
		bad.EventStart = "2026-06-04T13:00:00Z"
		_, err := svc.Create(testutil.AuthContext(owner), &bad)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("end before start", func(t *testing.T) {
		bad := *req
		bad.EventStart = "2026-06-05 02:00:00"
		bad.EventEnd = "2026-06-04 13:00:00"
		_, err := svc.Create(testutil.AuthContext(owner), &bad)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestEventService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newEventService(db)

	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	owner := testutil.CreateTestUser(t, db, domain.RoleSales)
	assigned := testutil.CreateTestUser(t, db, domain.RoleSupport)
	otherSupport := testutil.CreateTestUser(t, db, domain.RoleSupport)
	client := testutil.CreateTestClient(t, db, owner.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, owner.ID, domain.ContractStatusSigned)
	event := testutil.CreateTestEvent(t, db, contract)

	require.NoError(t, db.Model(event).Update("support_contact_id", assigned.ID).Error)

	t.Run("assigned support updates", func(t *testing.T) {
		dto, err := svc.Update(testutil.AuthContext(assigned), event.ID, &domain.UpdateEventRequest{
			Attendees: intPtr(200),
			Notes:     strPtr("Stage moved indoors."),
		})
		require.NoError(t, err)
		assert.Equal(t, 200, dto.Attendees)
		assert.Equal(t, "Stage moved indoors.", dto.Notes)
	})

	t.Run("other support is denied", func(t *testing.T) {
		_, err := svc.Update(testutil.AuthContext(otherSupport), event.ID, &domain.UpdateEventRequest{
			Attendees: intPtr(10),
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("admin is denied", func(t *testing.T) {
		_, err := svc.Update(testutil.AuthContext(admin), event.ID, &domain.UpdateEventRequest{
			Attendees: intPtr(10),
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("owning sales is denied", func(t *testing.T) {
		_, err := svc.Update(testutil.AuthContext(owner), event.ID, &domain.UpdateEventRequest{
			Attendees: intPtr(10),
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("unassigned event denies every support user", func(t *testing.T) {
		bare := testutil.CreateTestEvent(t, db, contract)
		_, err := svc.Update(testutil.AuthContext(assigned), bare.ID, &domain.UpdateEventRequest{
			Attendees: intPtr(10),
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := svc.Update(testutil.AuthContext(assigned), event.ID, &domain.UpdateEventRequest{
			EventEnd: strPtr("2020-01-01 00:00:00"),
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestEventService_AddSupport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newEventService(db)
	eventRepo := repository.NewEventRepository(db)

	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	owner := testutil.CreateTestUser(t, db, domain.RoleSales)
	support := testutil.CreateTestUser(t, db, domain.RoleSupport)
	client := testutil.CreateTestClient(t, db, owner.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, owner.ID, domain.ContractStatusSigned)
	event := testutil.CreateTestEvent(t, db, contract)

	t.Run("sales cannot assign", func(t *testing.T) {
		_, err := svc.AddSupport(testutil.AuthContext(owner), event.ID, &domain.AddSupportRequest{
			SupportContactID: support.ID,
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("non-support assignee fails whole", func(t *testing.T) {
		_, err := svc.AddSupport(testutil.AuthContext(admin), event.ID, &domain.AddSupportRequest{
			SupportContactID: owner.ID,
		})
		assert.ErrorIs(t, err, service.ErrInvalidAssignee)

		// the event keeps no assignment
		stored, err := eventRepo.GetByID(testutil.AuthContext(admin), event.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.SupportContactID)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		_, err := svc.AddSupport(testutil.AuthContext(admin), event.ID, &domain.AddSupportRequest{
			SupportContactID: 9999,
		})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("admin assigns a support user", func(t *testing.T) {
		dto, err := svc.AddSupport(testutil.AuthContext(admin), event.ID, &domain.AddSupportRequest{
			SupportContactID: support.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, dto.SupportContact)
		assert.Equal(t, support.ID, dto.SupportContact.ID)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := svc.AddSupport(testutil.AuthContext(admin), 9999, &domain.AddSupportRequest{
			SupportContactID: support.ID,
		})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestEventService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newEventService(db)

	owner := testutil.CreateTestUser(t, db, domain.RoleSales)
	otherSales := testutil.CreateTestUser(t, db, domain.RoleSales)
	support := testutil.CreateTestUser(t, db, domain.RoleSupport)
	client := testutil.CreateTestClient(t, db, owner.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, owner.ID, domain.ContractStatusSigned)
	event := testutil.CreateTestEvent(t, db, contract)

	t.Run("other sales is denied", func(t *testing.T) {
		err := svc.Delete(testutil.AuthContext(otherSales), event.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("support is denied", func(t *testing.T) {
		err := svc.Delete(testutil.AuthContext(support), event.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("owning sales deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(testutil.AuthContext(owner), event.ID))

		err := svc.Delete(testutil.AuthContext(owner), event.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestEventService_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newEventService(db)

	owner := testutil.CreateTestUser(t, db, domain.RoleSales)
	support := testutil.CreateTestUser(t, db, domain.RoleSupport)
	client := testutil.CreateTestClient(t, db, owner.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, owner.ID, domain.ContractStatusSigned)

	assigned := testutil.CreateTestEvent(t, db, contract)
	unassigned := testutil.CreateTestEvent(t, db, contract)
	require.NoError(t, db.Model(assigned).Update("support_contact_id", support.ID).Error)

	t.Run("unfiltered", func(t *testing.T) {
		dtos, err := svc.List(testutil.AuthContext(support), repository.EventFilters{})
		require.NoError(t, err)
		assert.Len(t, dtos, 2)
	})

	t.Run("by support contact", func(t *testing.T) {
		dtos, err := svc.List(testutil.AuthContext(support), repository.EventFilters{
			SupportContactID: support.ID,
		})
		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, assigned.ID, dtos[0].ID)
	})

	t.Run("unassigned only", func(t *testing.T) {
		dtos, err := svc.List(testutil.AuthContext(support), repository.EventFilters{
			Unassigned: true,
		})
		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, unassigned.ID, dtos[0].ID)
	})
}
