package partner

import (
	"context"

	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// Create creates a new client owned by ownerID
func (s *ClientService) Create(ctx context.Context, ownerID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(ownerID, req.Name)
	if err != nil {
		return nil, err
	}

	ch := partner.ClientChanges{IsActive: req.IsActive}
	if req.Email != "" {
		ch.Email = &req.Email
	}
	if req.Phone != "" {
		ch.Phone = &req.Phone
	}
	if req.Type != "" {
		t := partner.ClientType(req.Type)
		ch.Type = &t
	}
	if req.ClientType != "" {
		r := partner.ClientRole(req.ClientType)
		ch.ClientType = &r
	}
	if req.Code != "" {
		ch.Code = &req.Code
	}
	if req.VATCode != "" {
		ch.VATCode = &req.VATCode
	}
	if err := client.Apply(ch); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client of ownerID
func (s *ClientService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*ClientResponse, error) {
	client, err := shared.RequireOwned(ctx, s.clientRepo, ownerID, id, "Client")
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves a page of clients with the total count
func (s *ClientService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ClientResponse, int64, error) {
	clients, err := s.clientRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a client
func (s *ClientService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := shared.RequireOwned(ctx, s.clientRepo, ownerID, id, "Client")
	if err != nil {
		return nil, err
	}

	ch := partner.ClientChanges{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Code:     req.Code,
		VATCode:  req.VATCode,
		IsActive: req.IsActive,
	}
	if req.Type != nil {
		t := partner.ClientType(*req.Type)
		ch.Type = &t
	}
	if req.ClientType != nil {
		r := partner.ClientRole(*req.ClientType)
		ch.ClientType = &r
	}
	if err := client.Apply(ch); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// Delete soft-deletes a client
func (s *ClientService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.clientRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NotFound("Client")
		}
		return err
	}
	return nil
}

// Copy duplicates a client under a new ID with " (Copy)" appended to its name
func (s *ClientService) Copy(ctx context.Context, ownerID, id uuid.UUID) (*ClientResponse, error) {
	client, err := shared.RequireOwned(ctx, s.clientRepo, ownerID, id, "Client")
	if err != nil {
		return nil, err
	}
	cp := client.Copy()
	if err := s.clientRepo.Save(ctx, cp); err != nil {
		return nil, err
	}
	response := ToClientResponse(cp)
	return &response, nil
}
