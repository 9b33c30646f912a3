package service

import (
	"fmt"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
)

// Resource-state gates. These run after role and ownership checks and can
// still reject an otherwise authorized action based on the state of the
// records involved.

// ApplyContractAmounts initializes the remaining amount at contract
// creation. When the request leaves it out, the remaining amount starts
// equal to the total; either way it is set exactly once here and never
// re-derived when the total changes later.
func ApplyContractAmounts(contract *domain.Contract, requested *float64) {
	if requested != nil {
		contract.RemainingAmount = *requested
		return
	}
	contract.RemainingAmount = contract.TotalAmount
}

// CheckEventCreation gates event creation on the contract's state and
// ownership. The contract must be signed and the principal must be the
// contract's sales contact; an admin without ownership is rejected too.
func CheckEventCreation(p *auth.Principal, contract *domain.Contract) error {
	if !contract.Signed() {
		return fmt.Errorf("%w: contract %d is not signed", ErrPreconditionFailed, contract.ID)
	}
	if !p.IsSales() || contract.SalesContactID != p.UserID {
		return fmt.Errorf("%w: only the contract's sales contact may create its events", ErrPreconditionFailed)
	}
	return nil
}

// CheckSupportAssignment gates support assignment on the assignee's role.
// A non-support assignee fails the whole request and the event's support
// contact stays unset.
func CheckSupportAssignment(assignee *domain.User) error {
	if assignee.Role != domain.RoleSupport {
		return fmt.Errorf("%w: user %d has role %s", ErrInvalidAssignee, assignee.ID, assignee.Role)
	}
	return nil
}
