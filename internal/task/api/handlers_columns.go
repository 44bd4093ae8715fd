package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/common/httpmw"
	"github.com/taskdeck/taskdeck/internal/task/dto"
)

func (h *Handler) listColumns(c *gin.Context) {
	columns, err := h.service.ListColumns(c.Request.Context(), httpmw.UserID(c), c.Param("boardId"))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromColumns(columns))
}

func (h *Handler) createColumn(c *gin.Context) {
	var req dto.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpmw.RespondBindingError(c, h.logger, err)
		return
	}

	column, err := h.service.CreateColumn(c.Request.Context(), httpmw.UserID(c), req.BoardID, req.Name)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromColumn(column))
}

func (h *Handler) getColumn(c *gin.Context) {
	column, err := h.service.GetColumn(c.Request.Context(), httpmw.UserID(c), c.Param("columnId"))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromColumn(column))
}

func (h *Handler) updateColumn(c *gin.Context) {
	var req dto.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpmw.RespondBindingError(c, h.logger, err)
		return
	}

	column, err := h.service.UpdateColumn(c.Request.Context(), httpmw.UserID(c), c.Param("columnId"), req.Name)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromColumn(column))
}

func (h *Handler) deleteColumn(c *gin.Context) {
	if err := h.service.DeleteColumn(c.Request.Context(), httpmw.UserID(c), c.Param("columnId")); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
