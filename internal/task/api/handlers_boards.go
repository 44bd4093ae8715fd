package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/common/httpmw"
	"github.com/taskdeck/taskdeck/internal/task/dto"
)

func (h *Handler) listBoards(c *gin.Context) {
	boards, err := h.service.ListBoards(c.Request.Context(), httpmw.UserID(c))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBoards(boards))
}

func (h *Handler) createBoard(c *gin.Context) {
	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpmw.RespondBindingError(c, h.logger, err)
		return
	}

	board, err := h.service.CreateBoard(c.Request.Context(), httpmw.UserID(c), req.Name)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromBoard(board))
}

func (h *Handler) getBoard(c *gin.Context) {
	board, err := h.service.GetBoard(c.Request.Context(), httpmw.UserID(c), c.Param("boardId"))
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBoard(board))
}

func (h *Handler) updateBoard(c *gin.Context) {
	var req dto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpmw.RespondBindingError(c, h.logger, err)
		return
	}

	board, err := h.service.UpdateBoard(c.Request.Context(), httpmw.UserID(c), c.Param("boardId"), req.Name)
	if err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBoard(board))
}

func (h *Handler) deleteBoard(c *gin.Context) {
	if err := h.service.DeleteBoard(c.Request.Context(), httpmw.UserID(c), c.Param("boardId")); err != nil {
		httpmw.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
