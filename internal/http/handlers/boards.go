package handlers

import (
	"net/http"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListBoards(c *gin.Context) {
	boards, err := h.Boards.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// SearchBoards matches ?board_name= case-insensitively.
func (h *Handler) SearchBoards(c *gin.Context) {
	boards, err := h.Boards.Search(c.Request.Context(), c.Query("board_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// BoardsForUser lists the boards the user in :id belongs to.
func (h *Handler) BoardsForUser(c *gin.Context) {
	boards, err := h.Boards.ListForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

func (h *Handler) CreateBoard(c *gin.Context) {
	var in domain.NewBoard
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Boards.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBoard(c *gin.Context) {
	var p domain.BoardPatch
	if !bindJSON(c, &p) {
		return
	}
	b, err := h.Boards.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBoard(c *gin.Context) {
	b, err := h.Boards.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Board deleted successfully",
		"deleted_board": b,
	})
}
