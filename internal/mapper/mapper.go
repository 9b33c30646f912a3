package mapper

import (
	"time"

	"github.com/epicevents/crm-api/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToUserDTO converts a user to its API representation.
// Password hash and token never leave the service layer.
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:       user.ID,
		Fullname: user.Fullname,
		Email:    user.Email,
		Phone:    user.Phone,
		Role:     user.Role,
	}
}

// ToClientDTO converts a client to its API representation
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	dto := domain.ClientDTO{
		ID:        client.ID,
		Fullname:  client.Fullname,
		Email:     client.Email,
		Phone:     client.Phone,
		Company:   client.Company,
		CreatedAt: formatTime(client.CreatedAt),
		UpdatedAt: formatTime(client.UpdatedAt),
	}
	if client.SalesContact != nil {
		sc := ToUserDTO(client.SalesContact)
		dto.SalesContact = &sc
	}
	return dto
}

// ToContractDTO converts a contract to its API representation
func ToContractDTO(contract *domain.Contract) domain.ContractDTO {
	dto := domain.ContractDTO{
		ID:              contract.ID,
		TotalAmount:     contract.TotalAmount,
		RemainingAmount: contract.RemainingAmount,
		Status:          contract.Status,
		CreatedAt:       formatTime(contract.CreatedAt),
		UpdatedAt:       formatTime(contract.UpdatedAt),
	}
	if contract.Client != nil {
		c := ToClientDTO(contract.Client)
		dto.Client = &c
	}
	if contract.SalesContact != nil {
		sc := ToUserDTO(contract.SalesContact)
		dto.SalesContact = &sc
	}
	for i := range contract.Events {
		dto.Events = append(dto.Events, ToEventDTO(&contract.Events[i]))
	}
	return dto
}

// ToEventDTO converts an event to its API representation. Event times use
// the "2006-01-02 15:04:05" wire format.
func ToEventDTO(event *domain.Event) domain.EventDTO {
	dto := domain.EventDTO{
		ID:         event.ID,
		Title:      event.Title,
		Contract:   event.ContractID,
		EventStart: event.EventStart.Format(domain.EventTimeFormat),
		EventEnd:   event.EventEnd.Format(domain.EventTimeFormat),
		Location:   event.Location,
		Attendees:  event.Attendees,
		Notes:      event.Notes,
		CreatedAt:  formatTime(event.CreatedAt),
		UpdatedAt:  formatTime(event.UpdatedAt),
	}
	if event.Client != nil {
		c := ToClientDTO(event.Client)
		dto.Client = &c
	}
	if event.SalesContact != nil {
		sc := ToUserDTO(event.SalesContact)
		dto.SalesContact = &sc
	}
	if event.SupportContact != nil {
		sup := ToUserDTO(event.SupportContact)
		dto.SupportContact = &sup
	}
	return dto
}
