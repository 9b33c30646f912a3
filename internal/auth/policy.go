package auth

import (
	"errors"
	"fmt"

	"github.com/epicevents/crm-api/internal/domain"
)

// Capability identifies a protected operation as "resource:action"
type Capability string

const (
	CapUsersList   Capability = "users:list"
	CapUsersGet    Capability = "users:get"
	CapUsersCreate Capability = "users:create"
	CapUsersUpdate Capability = "users:update"
	CapUsersDelete Capability = "users:delete"

	CapClientsList   Capability = "clients:list"
	CapClientsGet    Capability = "clients:get"
	CapClientsCreate Capability = "clients:create"
	CapClientsUpdate Capability = "clients:update"
	CapClientsDelete Capability = "clients:delete"

	CapContractsList   Capability = "contracts:list"
	CapContractsGet    Capability = "contracts:get"
	CapContractsCreate Capability = "contracts:create"
	CapContractsUpdate Capability = "contracts:update"
	CapContractsDelete Capability = "contracts:delete"

	CapEventsList       Capability = "events:list"
	CapEventsGet        Capability = "events:get"
	CapEventsCreate     Capability = "events:create"
	CapEventsUpdate     Capability = "events:update"
	CapEventsDelete     Capability = "events:delete"
	CapEventsAddSupport Capability = "events:add-support"
)

var (
	// ErrUnknownCapability means the capability has no rule; deny by default
	ErrUnknownCapability = errors.New("unknown capability")
	// ErrRoleMismatch means the principal's role grants no path to the capability
	ErrRoleMismatch = errors.New("role does not grant capability")
	// ErrOwnershipMismatch means the role requires ownership the principal lacks
	ErrOwnershipMismatch = errors.New("principal does not own resource")
)

// ownerFunc extracts the owning user ID from a resource.
// The second return is false when the resource has no owner set
// or the resource type does not match; both deny.
type ownerFunc func(res any) (uint, bool)

// rule declares who may exercise a capability.
// Roles grants by role alone; OwnerRoles grants only when the principal's
// role matches and the principal owns the resource per Owner.
type rule struct {
	Roles      []domain.Role
	OwnerRoles []domain.Role
	Owner      ownerFunc
}

func clientOwner(res any) (uint, bool) {
	c, ok := res.(*domain.Client)
	if !ok || c.SalesContactID == 0 {
		return 0, false
	}
	return c.SalesContactID, true
}

func contractOwner(res any) (uint, bool) {
	c, ok := res.(*domain.Contract)
	if !ok || c.SalesContactID == 0 {
		return 0, false
	}
	return c.SalesContactID, true
}

func eventSalesOwner(res any) (uint, bool) {
	e, ok := res.(*domain.Event)
	if !ok || e.SalesContactID == 0 {
		return 0, false
	}
	return e.SalesContactID, true
}

func eventSupportOwner(res any) (uint, bool) {
	e, ok := res.(*domain.Event)
	if !ok || e.SupportContactID == nil {
		return 0, false
	}
	return *e.SupportContactID, true
}

var allRoles = []domain.Role{domain.RoleAdmin, domain.RoleSales, domain.RoleSupport}

// policy is the full capability matrix. Every route decision in the API
// reduces to a lookup here; handlers and services never hard-code roles.
var policy = map[Capability]rule{
	CapUsersList:   {Roles: []domain.Role{domain.RoleAdmin}},
	CapUsersGet:    {Roles: []domain.Role{domain.RoleAdmin}},
	CapUsersCreate: {Roles: []domain.Role{domain.RoleAdmin}},
	CapUsersUpdate: {Roles: []domain.Role{domain.RoleAdmin}},
	CapUsersDelete: {Roles: []domain.Role{domain.RoleAdmin}},

	CapClientsList:   {Roles: allRoles},
	CapClientsGet:    {Roles: allRoles},
	CapClientsCreate: {Roles: []domain.Role{domain.RoleSales}},
	CapClientsUpdate: {
		OwnerRoles: []domain.Role{domain.RoleSales},
		Owner:      clientOwner,
	},
	CapClientsDelete: {
		OwnerRoles: []domain.Role{domain.RoleSales},
		Owner:      clientOwner,
	},

	CapContractsList:   {Roles: allRoles},
	CapContractsGet:    {Roles: allRoles},
	CapContractsCreate: {Roles: []domain.Role{domain.RoleAdmin}},
	CapContractsUpdate: {Roles: []domain.Role{domain.RoleAdmin}},
	CapContractsDelete: {
		OwnerRoles: []domain.Role{domain.RoleSales},
		Owner:      contractOwner,
	},

	CapEventsList:   {Roles: allRoles},
	CapEventsGet:    {Roles: allRoles},
	CapEventsCreate: {Roles: []domain.Role{domain.RoleSales}},
	CapEventsUpdate: {
		OwnerRoles: []domain.Role{domain.RoleSupport},
		Owner:      eventSupportOwner,
	},
	CapEventsDelete: {
		OwnerRoles: []domain.Role{domain.RoleSales},
		Owner:      eventSalesOwner,
	},
	CapEventsAddSupport: {Roles: []domain.Role{domain.RoleAdmin}},
}

// ParseCapability validates a "resource:action" string against the matrix
func ParseCapability(target string) (Capability, error) {
	c := Capability(target)
	if _, ok := policy[c]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCapability, target)
	}
	return c, nil
}

// Authorize decides whether the principal may exercise the capability on
// the given resource. Pass a nil resource for capabilities whose rule has
// no ownership path.
func Authorize(p *Principal, c Capability, res any) error {
	r, ok := policy[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCapability, c)
	}

	for _, role := range r.Roles {
		if p.Role == role {
			return nil
		}
	}

	for _, role := range r.OwnerRoles {
		if p.Role != role {
			continue
		}
		ownerID, ok := r.Owner(res)
		if !ok || ownerID != p.UserID {
			return ErrOwnershipMismatch
		}
		return nil
	}

	return ErrRoleMismatch
}

// Can is the role-only pre-flight check: true when the principal's role
// gives it at least a conditional path to the capability. Ownership is
// not consulted, so a true answer can still fail at Authorize time.
func Can(p *Principal, c Capability) bool {
	r, ok := policy[c]
	if !ok {
		return false
	}
	for _, role := range r.Roles {
		if p.Role == role {
			return true
		}
	}
	for _, role := range r.OwnerRoles {
		if p.Role == role {
			return true
		}
	}
	return false
}
