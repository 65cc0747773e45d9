package handler

import (
	partnerapp "github.com/bizdesk/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	crud          ownedCRUD[partnerapp.CreateClientRequest, partnerapp.UpdateClientRequest, partnerapp.ClientResponse]
	clientService *partnerapp.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(base BaseHandler, clientService *partnerapp.ClientService) *ClientHandler {
	h := &ClientHandler{BaseHandler: base, clientService: clientService}
	h.crud = ownedCRUD[partnerapp.CreateClientRequest, partnerapp.UpdateClientRequest, partnerapp.ClientResponse]{
		BaseHandler: &h.BaseHandler,
		svc:         clientService,
		resource:    "client",
		params: listParams{
			{key: "type"},
			{key: "client_type", alias: "clientType"},
			{key: "is_active", alias: "isActive", kind: filterBool},
		},
	}
	return h
}

// Create godoc
// @ID           createClient
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateClientRequest true "Client data"
// @Success      201 {object} APIResponse[partnerapp.ClientResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) { h.crud.create(c) }

// GetByID godoc
// @ID           getClientById
// @Summary      Get a client by ID
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.ClientResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) { h.crud.get(c) }

// List godoc
// @ID           listClients
// @Summary      List clients
// @Description  Page through the caller's clients
// @Tags         clients
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search in name, email, code, VAT code and phone"
// @Param        order_by query string false "Sort column" default(name)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        type query string false "Legal form" Enums(company, individual)
// @Param        client_type query string false "Role" Enums(customer, supplier, both)
// @Param        is_active query bool false "Active flag"
// @Success      200 {object} APIResponse[[]partnerapp.ClientResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) { h.crud.list(c) }

// Update godoc
// @ID           updateClient
// @Summary      Update a client
// @Description  Only the supplied fields change
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        request body partnerapp.UpdateClientRequest true "Fields to change"
// @Success      200 {object} APIResponse[partnerapp.ClientResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) { h.crud.update(c) }

// Delete godoc
// @ID           deleteClient
// @Summary      Delete a client
// @Tags         clients
// @Param        id path string true "Client ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) { h.crud.delete(c) }

// Copy godoc
// @ID           copyClient
// @Summary      Duplicate a client
// @Description  Create a copy of the client named "<name> (Copy)"
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      201 {object} APIResponse[partnerapp.ClientResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/copy [post]
func (h *ClientHandler) Copy(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "client")
	if !ok {
		return
	}
	resp, err := h.clientService.Copy(c.Request.Context(), owner, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
