package domain

// DTOs for API responses. Field names are snake_case to match the wire
// format consumed by the CLI.

// EventTimeFormat is the wire format for event start/end timestamps
const EventTimeFormat = "2006-01-02 15:04:05"

type UserDTO struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
}

type ClientDTO struct {
	ID           uint     `json:"id"`
	Fullname     string   `json:"fullname"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Company      string   `json:"company"`
	SalesContact *UserDTO `json:"sales_contact"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type ContractDTO struct {
	ID              uint           `json:"id"`
	Client          *ClientDTO     `json:"client"`
	SalesContact    *UserDTO       `json:"sales_contact"`
	TotalAmount     float64        `json:"total_amount"`
	RemainingAmount float64        `json:"remaining_amount"`
	Status          ContractStatus `json:"status"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
	Events          []EventDTO     `json:"events,omitempty"`
}

type EventDTO struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	Contract       uint       `json:"contract"`
	Client         *ClientDTO `json:"client"`
	SalesContact   *UserDTO   `json:"sales_contact"`
	SupportContact *UserDTO   `json:"support_contact"`
	EventStart     string     `json:"event_start"`
	EventEnd       string     `json:"event_end"`
	Location       string     `json:"location"`
	Attendees      int        `json:"attendees"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

// TokenDTO is the response body for a successful token mint
type TokenDTO struct {
	Token string `json:"token"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Request types

type CreateUserRequest struct {
	Fullname string `json:"fullname" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Phone    string `json:"phone" validate:"max=20"`
	Role     Role   `json:"role" validate:"required,oneof=admin sales support"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Fullname *string `json:"fullname" validate:"omitempty,max=64"`
	Email    *string `json:"email" validate:"omitempty,email,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=admin sales support"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

type CreateClientRequest struct {
	Fullname string `json:"fullname" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Phone    string `json:"phone" validate:"max=20"`
	Company  string `json:"company" validate:"max=120"`
}

type UpdateClientRequest struct {
	Fullname *string `json:"fullname" validate:"omitempty,max=64"`
	Email    *string `json:"email" validate:"omitempty,email,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Company  *string `json:"company" validate:"omitempty,max=120"`
}

type CreateContractRequest struct {
	ClientID        uint     `json:"client_id" validate:"required"`
	SalesContactID  uint     `json:"sales_contact_id" validate:"required"`
	TotalAmount     float64  `json:"total_amount" validate:"required,gte=0"`
	RemainingAmount *float64 `json:"remaining_amount" validate:"omitempty,gte=0"`
}

type UpdateContractRequest struct {
	TotalAmount     *float64        `json:"total_amount" validate:"omitempty,gte=0"`
	RemainingAmount *float64        `json:"remaining_amount" validate:"omitempty,gte=0"`
	Status          *ContractStatus `json:"status" validate:"omitempty,oneof=pending signed"`
}

type CreateEventRequest struct {
	Title      string `json:"title" validate:"required,max=120"`
	ContractID uint   `json:"contract_id" validate:"required"`
	EventStart string `json:"event_start" validate:"required"`
	EventEnd   string `json:"event_end" validate:"required"`
	Location   string `json:"location" validate:"max=120"`
	Attendees  int    `json:"attendees" validate:"gte=0"`
	Notes      string `json:"notes"`
}

type UpdateEventRequest struct {
	Title      *string `json:"title" validate:"omitempty,max=120"`
	EventStart *string `json:"event_start"`
	EventEnd   *string `json:"event_end"`
	Location   *string `json:"location" validate:"omitempty,max=120"`
	Attendees  *int    `json:"attendees" validate:"omitempty,gte=0"`
	Notes      *string `json:"notes"`
}

type AddSupportRequest struct {
	SupportContactID uint `json:"support_contact_id" validate:"required"`
}

// AuthorizationRequest is the pre-flight capability check body
type AuthorizationRequest struct {
	Target string `json:"target" validate:"required"`
}
