package handler

import (
	catalogapp "github.com/bizdesk/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	BaseHandler
	crud ownedCRUD[catalogapp.CreateProductRequest, catalogapp.UpdateProductRequest, catalogapp.ProductResponse]
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(base BaseHandler, productService *catalogapp.ProductService) *ProductHandler {
	h := &ProductHandler{BaseHandler: base}
	h.crud = ownedCRUD[catalogapp.CreateProductRequest, catalogapp.UpdateProductRequest, catalogapp.ProductResponse]{
		BaseHandler: &h.BaseHandler,
		svc:         productService,
		resource:    "product",
		params: listParams{
			{key: "currency"},
			{key: "unit"},
		},
	}
	return h
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Description  Product codes are unique per owner
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product data"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) { h.crud.create(c) }

// GetByID godoc
// @ID           getProductById
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) { h.crud.get(c) }

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search in code, name and description"
// @Param        order_by query string false "Sort column"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        currency query string false "ISO 4217 currency"
// @Param        unit query string false "Unit of measure"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) { h.crud.list(c) }

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) { h.crud.update(c) }

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) { h.crud.delete(c) }
