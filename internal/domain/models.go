package domain

import (
	"time"
)

// Role represents the role a user can have
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleSales   Role = "sales"
	RoleSupport Role = "support"
)

// IsValid checks if the Role is a valid enum value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSales, RoleSupport:
		return true
	}
	return false
}

// ContractStatus represents the lifecycle state of a contract
type ContractStatus string

const (
	ContractStatusPending ContractStatus = "pending"
	ContractStatusSigned  ContractStatus = "signed"
)

// IsValid checks if the ContractStatus is a valid enum value
func (cs ContractStatus) IsValid() bool {
	switch cs {
	case ContractStatusPending, ContractStatusSigned:
		return true
	}
	return false
}

// AuthToken is the single live bearer token owned by a user. The pair is
// replaced wholesale on reissue; there is never more than one live token
// per user.
type AuthToken struct {
	Value  string     `gorm:"type:varchar(64);index;column:token"`
	Expiry *time.Time `gorm:"column:token_expiry"`
}

// Valid reports whether the token can authenticate a request at the given
// instant. Expiry is strict: a token expiring exactly now is invalid.
func (t AuthToken) Valid(now time.Time) bool {
	return t.Value != "" && t.Expiry != nil && t.Expiry.After(now)
}

// Reusable reports whether the token still has more than the reuse window
// remaining, in which case issuing returns it unchanged instead of minting
// a new one.
func (t AuthToken) Reusable(now time.Time, window time.Duration) bool {
	return t.Value != "" && t.Expiry != nil && t.Expiry.After(now.Add(window))
}

// User represents a CRM user (admin, sales or support)
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Fullname     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Email        string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	Phone        string    `gorm:"type:varchar(20)"`
	Role         Role      `gorm:"type:varchar(20);not null;index"`
	PasswordHash string    `gorm:"type:varchar(256);column:password_hash"`
	Token        AuthToken `gorm:"embedded"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	Clients      []Client  `gorm:"foreignKey:SalesContactID"`
}

// Client represents an organization contact managed by a sales user
type Client struct {
	ID             uint       `gorm:"primaryKey"`
	Fullname       string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	Email          string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	Phone          string     `gorm:"type:varchar(20)"`
	Company        string     `gorm:"type:varchar(120)"`
	SalesContactID uint       `gorm:"not null;index;column:sales_contact_id"`
	SalesContact   *User      `gorm:"foreignKey:SalesContactID"`
	Contracts      []Contract `gorm:"foreignKey:ClientID"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Contract represents an agreement with a client, owned by a sales user.
// RemainingAmount is initialized from TotalAmount exactly once at creation
// (when not supplied explicitly) and is never re-derived afterwards.
type Contract struct {
	ID              uint           `gorm:"primaryKey"`
	ClientID        uint           `gorm:"not null;index;column:client_id"`
	Client          *Client        `gorm:"foreignKey:ClientID"`
	SalesContactID  uint           `gorm:"not null;index;column:sales_contact_id"`
	SalesContact    *User          `gorm:"foreignKey:SalesContactID"`
	TotalAmount     float64        `gorm:"type:decimal(15,2);not null;column:total_amount"`
	RemainingAmount float64        `gorm:"type:decimal(15,2);not null;column:remaining_amount"`
	Status          ContractStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Events          []Event        `gorm:"foreignKey:ContractID"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Signed reports whether the contract has been signed
func (c *Contract) Signed() bool {
	return c.Status == ContractStatusSigned
}

// Event represents an event organized for a client under a signed contract.
// ClientID and SalesContactID are derived from the contract at creation;
// SupportContactID is assigned later by an admin and stays nil until then.
type Event struct {
	ID               uint      `gorm:"primaryKey"`
	Title            string    `gorm:"type:varchar(120);not null"`
	ContractID       uint      `gorm:"not null;index;column:contract_id"`
	Contract         *Contract `gorm:"foreignKey:ContractID"`
	ClientID         uint      `gorm:"not null;index;column:client_id"`
	Client           *Client   `gorm:"foreignKey:ClientID"`
	SalesContactID   uint      `gorm:"not null;index;column:sales_contact_id"`
	SalesContact     *User     `gorm:"foreignKey:SalesContactID"`
	SupportContactID *uint     `gorm:"index;column:support_contact_id"`
	SupportContact   *User     `gorm:"foreignKey:SupportContactID"`
	EventStart       time.Time `gorm:"not null;column:event_start"`
	EventEnd         time.Time `gorm:"not null;column:event_end"`
	Location         string    `gorm:"type:varchar(120)"`
	Attendees        int       `gorm:"not null;default:0"`
	Notes            string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// HasSupport reports whether a support contact has been assigned
func (e *Event) HasSupport() bool {
	return e.SupportContactID != nil && *e.SupportContactID != 0
}
