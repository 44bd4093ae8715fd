package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/common/httpmw"
	"github.com/taskdeck/taskdeck/internal/task/dto"
)

func (h *Handler) listSubtasks(c *gin.Context) {
	subtasks, err := h.service.ListSubtasks(c.Request.Context(), httpmw.UserID(c), c.Param("taskId"))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSubtasks(subtasks))
}

func (h *Handler) createSubtask(c *gin.Context) {
	var req dto.CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpmw.RespondBindingError(c, h.logger, err)
		return
	}

	subtask, err := h.service.CreateSubtask(c.Request.Context(), httpmw.UserID(c), req.TaskID, req.Title)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromSubtask(subtask))
}

func (h *Handler) getSubtask(c *gin.Context) {
	subtask, err := h.service.GetSubtask(c.Request.Context(), httpmw.UserID(c), c.Param("subtaskId"))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSubtask(subtask))
}

func (h *Handler) updateSubtask(c *gin.Context) {
	var req dto.UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpmw.RespondBindingError(c, h.logger, err)
		return
	}

	subtask, err := h.service.UpdateSubtask(c.Request.Context(), httpmw.UserID(c), c.Param("subtaskId"), req.Title, req.Completed)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSubtask(subtask))
}

func (h *Handler) deleteSubtask(c *gin.Context) {
	if err := h.service.DeleteSubtask(c.Request.Context(), httpmw.UserID(c), c.Param("subtaskId")); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
