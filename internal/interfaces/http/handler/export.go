package handler

import (
	"fmt"
	"net/http"

	exportapp "github.com/bizdesk/backend/internal/application/export"
	"github.com/gin-gonic/gin"
)

// ExportHandler serves XLSX exports of the caller's records
type ExportHandler struct {
	BaseHandler
	exportService *exportapp.Service
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(base BaseHandler, exportService *exportapp.Service) *ExportHandler {
	return &ExportHandler{BaseHandler: base, exportService: exportService}
}

// Export godoc
// @ID           exportResource
// @Summary      Export records as an XLSX workbook
// @Description  With object storage configured the workbook is uploaded and a presigned link is returned; otherwise it is streamed as an attachment
// @Tags         exports
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        resource path string true "Resource" Enums(clients, products, sales, purchases, bank-operations, doc-settlements)
// @Success      200 {object} APIResponse[exportapp.LinkResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /exports/{resource} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	result, err := h.exportService.Export(c.Request.Context(), owner, exportapp.Resource(c.Param("resource")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Link != nil {
		h.Success(c, result.Link)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.File.Name))
	c.Data(http.StatusOK, exportapp.ContentType, result.File.Data)
}
