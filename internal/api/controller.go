package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"formulagrid/internal/storage"
)

// Actions is what the router needs from a controller.
type Actions interface {
	SetCellAction(c *gin.Context)
	GetCellAction(c *gin.Context)
	GetSheetAction(c *gin.Context)
	ListSheetsAction(c *gin.Context)
}

type Controller struct {
	Sheets SheetService
}

type CellEndpointParams struct {
	SheetID string `uri:"sheet_id" binding:"required"`
	CellID  string `uri:"cell_id" binding:"required"`
}

type SheetEndpointParams struct {
	SheetID string `uri:"sheet_id" binding:"required"`
}

// SetCellRequest carries the new cell text; an empty value clears the cell.
type SetCellRequest struct {
	Value *string `json:"value" binding:"required"`
}

func NewController(sheets SheetService) *Controller {
	return &Controller{Sheets: sheets}
}

func (api *Controller) GetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	var response *Cell

	err := c.ShouldBindUri(&params)
	if err == nil {
		response, err = api.Sheets.GetCell(params.SheetID, params.CellID)
	}

	switch {
	case errors.Is(err, storage.ErrCellNotFound) || errors.Is(err, storage.ErrSheetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, response)
	}
}

// SetCellAction stores the value and answers with the evaluated cell. A formula
// that evaluates to an error is still stored; only bad requests are rejected.
func (api *Controller) SetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SetCellRequest{}

	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusUnprocessableEntity, &Cell{Error: err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, &Cell{Error: err.Error()})
		return
	}

	value := *request.Value
	response, err := api.Sheets.SetCell(params.SheetID, params.CellID, value)

	switch {
	case errors.Is(err, storage.ErrInvalidLabel):
		c.JSON(http.StatusUnprocessableEntity, &Cell{Value: value, Error: err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, response)
	}
}

func (api *Controller) GetSheetAction(c *gin.Context) {
	params := SheetEndpointParams{}
	var response CellList

	err := c.ShouldBindUri(&params)
	if err == nil {
		response, err = api.Sheets.GetCellList(params.SheetID)
	}

	switch {
	case errors.Is(err, storage.ErrSheetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, response)
	}
}

func (api *Controller) ListSheetsAction(c *gin.Context) {
	ids, err := api.Sheets.Sheets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"sheets": ids})
}
