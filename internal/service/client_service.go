package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/mapper"
	"github.com/epicevents/crm-api/internal/repository"
)

type ClientService struct {
	clientRepo *repository.ClientRepository
	logger     *zap.Logger
}

func NewClientService(clientRepo *repository.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (s *ClientService) List(ctx context.Context) ([]domain.ClientDTO, error) {
	if _, err := authorize(ctx, auth.CapClientsList, nil); err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, 0, len(clients))
	for i := range clients {
		dtos = append(dtos, mapper.ToClientDTO(&clients[i]))
	}
	return dtos, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uint) (*domain.ClientDTO, error) {
	if _, err := authorize(ctx, auth.CapClientsGet, nil); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "client")
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// Create registers a new client owned by the calling sales user. The
// sales contact is always the caller, never taken from the request.
func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	p, err := authorize(ctx, auth.CapClientsCreate, nil)
	if err != nil {
		return nil, err
	}

	taken, err := s.clientRepo.Taken(ctx, req.Fullname, req.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: fullname or email already in use", ErrDuplicate)
	}

	client := &domain.Client{
		Fullname:       req.Fullname,
		Email:          req.Email,
		Phone:          req.Phone,
		Company:        req.Company,
		SalesContactID: p.UserID,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.Uint("client_id", client.ID),
		zap.Uint("sales_contact_id", p.UserID),
	)

	created, err := s.clientRepo.GetByID(ctx, client.ID)
	if err != nil {
		return nil, wrapNotFound(err, "client")
	}
	dto := mapper.ToClientDTO(created)
	return &dto, nil
}

func (s *ClientService) Update(ctx context.Context, id uint, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "client")
	}

	p, err := authorize(ctx, auth.CapClientsUpdate, client)
	if err != nil {
		return nil, err
	}

	fullname := client.Fullname
	email := client.Email
	if req.Fullname != nil {
		fullname = *req.Fullname
	}
	if req.Email != nil {
		email = *req.Email
	}
	if fullname != client.Fullname || email != client.Email {
		taken, err := s.clientRepo.Taken(ctx, fullname, email, client.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check uniqueness: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: fullname or email already in use", ErrDuplicate)
		}
	}

	client.Fullname = fullname
	client.Email = email
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Company != nil {
		client.Company = *req.Company
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	s.logger.Info("client updated",
		zap.Uint("client_id", client.ID),
		zap.Uint("updated_by", p.UserID),
	)

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Delete(ctx context.Context, id uint) error {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return wrapNotFound(err, "client")
	}

	p, err := authorize(ctx, auth.CapClientsDelete, client)
	if err != nil {
		return err
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.Info("client deleted",
		zap.Uint("client_id", id),
		zap.Uint("deleted_by", p.UserID),
	)
	return nil
}
