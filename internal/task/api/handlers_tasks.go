package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/common/httpmw"
	"github.com/taskdeck/taskdeck/internal/task/dto"
)

func (h *Handler) listTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks(c.Request.Context(), httpmw.UserID(c), c.Param("columnId"))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTasks(tasks))
}

func (h *Handler) createTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpmw.RespondBindingError(c, h.logger, err)
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), httpmw.UserID(c), req.ColumnID, req.Title, req.Description)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTask(task))
}

func (h *Handler) getTask(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), httpmw.UserID(c), c.Param("taskId"))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(task))
}

func (h *Handler) updateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpmw.RespondBindingError(c, h.logger, err)
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), httpmw.UserID(c), c.Param("taskId"), req.Title, req.Description)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(task))
}

func (h *Handler) deleteTask(c *gin.Context) {
	if err := h.service.DeleteTask(c.Request.Context(), httpmw.UserID(c), c.Param("taskId")); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
