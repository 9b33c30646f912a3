package auth_test

import (
	"testing"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func principal(id uint, role domain.Role) *auth.Principal {
	return &auth.Principal{UserID: id, Fullname: "Test User", Email: "user@test.example", Role: role}
}

func TestParseCapability(t *testing.T) {
	t.Run("known targets", func(t *testing.T) {
		for _, target := range []string{
			"users:list", "users:create", "clients:update", "contracts:delete",
			"events:create", "events:add-support",
		} {
			c, err := auth.ParseCapability(target)
			require.NoError(t, err, target)
			assert.Equal(t, auth.Capability(target), c)
		}
	})

	t.Run("unknown targets", func(t *testing.T) {
		for _, target := range []string{"", "users", "users:purge", "invoices:list", "USERS:LIST"} {
			_, err := auth.ParseCapability(target)
			assert.ErrorIs(t, err, auth.ErrUnknownCapability, target)
		}
	})
}

func TestAuthorize_RoleRules(t *testing.T) {
	tests := []struct {
		name string
		role domain.Role
		cap  auth.Capability
		want error
	}{
		{"any role reads clients", domain.RoleSales, auth.CapClientsGet, nil},
		{"any role lists contracts", domain.RoleAdmin, auth.CapContractsList, nil},
		{"any role reads events", domain.RoleSupport, auth.CapEventsGet, nil},

		{"admin lists users", domain.RoleAdmin, auth.CapUsersList, nil},
		{"sales cannot list users", domain.RoleSales, auth.CapUsersList, auth.ErrRoleMismatch},
		{"support cannot list users", domain.RoleSupport, auth.CapUsersList, auth.ErrRoleMismatch},
		{"support cannot read a user", domain.RoleSupport, auth.CapUsersGet, auth.ErrRoleMismatch},
		{"admin creates users", domain.RoleAdmin, auth.CapUsersCreate, nil},
		{"sales cannot create users", domain.RoleSales, auth.CapUsersCreate, auth.ErrRoleMismatch},
		{"support cannot delete users", domain.RoleSupport, auth.CapUsersDelete, auth.ErrRoleMismatch},

		{"sales creates clients", domain.RoleSales, auth.CapClientsCreate, nil},
		{"admin cannot create clients", domain.RoleAdmin, auth.CapClientsCreate, auth.ErrRoleMismatch},
		{"support cannot create clients", domain.RoleSupport, auth.CapClientsCreate, auth.ErrRoleMismatch},

		{"admin creates contracts", domain.RoleAdmin, auth.CapContractsCreate, nil},
		{"sales cannot create contracts", domain.RoleSales, auth.CapContractsCreate, auth.ErrRoleMismatch},
		{"admin updates contracts", domain.RoleAdmin, auth.CapContractsUpdate, nil},
		{"sales cannot update contracts", domain.RoleSales, auth.CapContractsUpdate, auth.ErrRoleMismatch},

		{"sales creates events", domain.RoleSales, auth.CapEventsCreate, nil},
		{"admin cannot create events", domain.RoleAdmin, auth.CapEventsCreate, auth.ErrRoleMismatch},
		{"support cannot create events", domain.RoleSupport, auth.CapEventsCreate, auth.ErrRoleMismatch},

		{"admin assigns support", domain.RoleAdmin, auth.CapEventsAddSupport, nil},
		{"sales cannot assign support", domain.RoleSales, auth.CapEventsAddSupport, auth.ErrRoleMismatch},
		{"support cannot assign support", domain.RoleSupport, auth.CapEventsAddSupport, auth.ErrRoleMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.Authorize(principal(1, tt.role), tt.cap, nil)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestAuthorize_Ownership(t *testing.T) {
	client := &domain.Client{ID: 10, SalesContactID: 7}
	contract := &domain.Contract{ID: 20, SalesContactID: 7}
	supportID := uint(9)
	event := &domain.Event{ID: 30, SalesContactID: 7, SupportContactID: &supportID}
	unassigned := &domain.Event{ID: 31, SalesContactID: 7}

	tests := []struct {
		name string
		p    *auth.Principal
		cap  auth.Capability
		res  any
		want error
	}{
		{"owning sales updates client", principal(7, domain.RoleSales), auth.CapClientsUpdate, client, nil},
		{"other sales cannot update client", principal(8, domain.RoleSales), auth.CapClientsUpdate, client, auth.ErrOwnershipMismatch},
		{"admin cannot update client", principal(1, domain.RoleAdmin), auth.CapClientsUpdate, client, auth.ErrRoleMismatch},
		{"support cannot update client", principal(9, domain.RoleSupport), auth.CapClientsUpdate, client, auth.ErrRoleMismatch},

		{"owning sales deletes client", principal(7, domain.RoleSales), auth.CapClientsDelete, client, nil},
		{"admin cannot delete client", principal(1, domain.RoleAdmin), auth.CapClientsDelete, client, auth.ErrRoleMismatch},

		{"owning sales cannot update contract", principal(7, domain.RoleSales), auth.CapContractsUpdate, contract, auth.ErrRoleMismatch},
		{"admin updates any contract", principal(1, domain.RoleAdmin), auth.CapContractsUpdate, contract, nil},

		{"owning sales deletes contract", principal(7, domain.RoleSales), auth.CapContractsDelete, contract, nil},
		{"admin cannot delete contract", principal(1, domain.RoleAdmin), auth.CapContractsDelete, contract, auth.ErrRoleMismatch},

		{"assigned support updates event", principal(9, domain.RoleSupport), auth.CapEventsUpdate, event, nil},
		{"other support cannot update event", principal(11, domain.RoleSupport), auth.CapEventsUpdate, event, auth.ErrOwnershipMismatch},
		{"unassigned event denies all support", principal(9, domain.RoleSupport), auth.CapEventsUpdate, unassigned, auth.ErrOwnershipMismatch},
		{"sales cannot update event", principal(7, domain.RoleSales), auth.CapEventsUpdate, event, auth.ErrRoleMismatch},
		{"admin cannot update event", principal(1, domain.RoleAdmin), auth.CapEventsUpdate, event, auth.ErrRoleMismatch},

		{"owning sales deletes event", principal(7, domain.RoleSales), auth.CapEventsDelete, event, nil},
		{"other sales cannot delete event", principal(8, domain.RoleSales), auth.CapEventsDelete, event, auth.ErrOwnershipMismatch},
		{"support cannot delete event", principal(9, domain.RoleSupport), auth.CapEventsDelete, event, auth.ErrRoleMismatch},

		{"wrong resource type denies", principal(7, domain.RoleSales), auth.CapClientsUpdate, contract, auth.ErrOwnershipMismatch},
		{"nil resource denies owner path", principal(7, domain.RoleSales), auth.CapClientsUpdate, nil, auth.ErrOwnershipMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.Authorize(tt.p, tt.cap, tt.res)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestCan(t *testing.T) {
	t.Run("role path", func(t *testing.T) {
		assert.True(t, auth.Can(principal(1, domain.RoleAdmin), auth.CapUsersCreate))
		assert.False(t, auth.Can(principal(2, domain.RoleSales), auth.CapUsersCreate))
	})

	t.Run("conditional owner path answers true without a resource", func(t *testing.T) {
		p := principal(2, domain.RoleSales)
		assert.True(t, auth.Can(p, auth.CapClientsDelete))

		// The full check can still deny the same principal on a
		// resource it does not own.
		other := &domain.Client{ID: 5, SalesContactID: 99}
		assert.ErrorIs(t, auth.Authorize(p, auth.CapClientsDelete, other), auth.ErrOwnershipMismatch)
	})

	t.Run("no path at all", func(t *testing.T) {
		assert.False(t, auth.Can(principal(3, domain.RoleSupport), auth.CapClientsCreate))
		assert.False(t, auth.Can(principal(3, domain.RoleSupport), auth.CapEventsAddSupport))
	})

	t.Run("unknown capability", func(t *testing.T) {
		assert.False(t, auth.Can(principal(1, domain.RoleAdmin), auth.Capability("users:purge")))
	})
}
