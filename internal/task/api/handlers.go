// Package api exposes the board, column, task, and subtask HTTP endpoints.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/common/logger"
	"github.com/taskdeck/taskdeck/internal/task/service"
)

// Handler handles entity CRUD requests.
type Handler struct {
	service *service.Service
	logger  *logger.Logger
}

// NewHandler creates a new task API handler.
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{service: svc, logger: log}
}

// RegisterRoutes registers all entity endpoints on a router group. The group
// is expected to already carry the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	boards := rg.Group("/boards")
	{
		boards.GET("", h.listBoards)
		boards.POST("", h.createBoard)
		boards.GET("/:boardId", h.getBoard)
		boards.PUT("/:boardId", h.updateBoard)
		boards.DELETE("/:boardId", h.deleteBoard)
		boards.GET("/:boardId/columns", h.listColumns)
	}

	columns := rg.Group("/columns")
	{
		columns.POST("", h.createColumn)
		columns.GET("/:columnId", h.getColumn)
		columns.PUT("/:columnId", h.updateColumn)
		columns.DELETE("/:columnId", h.deleteColumn)
		columns.GET("/:columnId/tasks", h.listTasks)
	}

	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.createTask)
		tasks.GET("/:taskId", h.getTask)
		tasks.PUT("/:taskId", h.updateTask)
		tasks.DELETE("/:taskId", h.deleteTask)
		tasks.GET("/:taskId/subtasks", h.listSubtasks)
	}

	subtasks := rg.Group("/subtasks")
	{
		subtasks.POST("", h.createSubtask)
		subtasks.GET("/:subtaskId", h.getSubtask)
		subtasks.PUT("/:subtaskId", h.updateSubtask)
		subtasks.DELETE("/:subtaskId", h.deleteSubtask)
	}
}
