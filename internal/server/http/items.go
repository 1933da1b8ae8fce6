package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/itemkeeper/internal/common"
	"github.com/dmitrijs2005/itemkeeper/internal/server/models"
	"github.com/dmitrijs2005/itemkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// ItemService is what the items endpoints need from the service layer.
type ItemService interface {
	List(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, itemID string) (*models.Item, error)
	Create(ctx context.Context, item models.NewItem) (*models.Item, error)
	Update(ctx context.Context, item models.ItemUpdate) (*models.Item, error)
	Validate(name, description string) []models.Validation
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error      string              `json:"error"`
	Validation []models.Validation `json:"validation,omitempty"`
}

// ValidationResponse is the body of POST /items/validate.
type ValidationResponse struct {
	Validation []models.Validation `json:"validation"`
}

type itemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ItemsController struct {
	svc ItemService
}

func NewItemsController(svc ItemService) *ItemsController {
	return &ItemsController{svc: svc}
}

func (h *ItemsController) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ItemsController) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemsController) Create(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	item, err := h.svc.Create(c.Request.Context(), models.NewItem{Name: req.Name, Description: req.Description})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update takes the id from the path; an itemid in the body is ignored.
func (h *ItemsController) Update(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	item, err := h.svc.Update(c.Request.Context(), models.ItemUpdate{
		ItemID:      c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Validate reports problems with a candidate item without storing it.
func (h *ItemsController) Validate(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	v := h.svc.Validate(req.Name, req.Description)
	if v == nil {
		v = []models.Validation{}
	}
	c.JSON(http.StatusOK, ValidationResponse{Validation: v})
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *services.ValidationError
	var cv *common.ConstraintViolation
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Validation: ve.Validation})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "item not found"})
	case errors.As(err, &cv):
		resp := ErrorResponse{Error: cv.Error()}
		if strings.Contains(cv.Constraint, "name") {
			resp.Validation = []models.Validation{{For: "name", Message: "Name must be unique"}}
		}
		c.JSON(http.StatusConflict, resp)
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
