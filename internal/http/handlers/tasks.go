package handlers

import (
	"net/http"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) TasksForBoard(c *gin.Context) {
	tasks, err := h.Tasks.ListByBoard(c.Request.Context(), c.Param("boardId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) TasksForUser(c *gin.Context) {
	tasks, err := h.Tasks.ListByAssignee(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	t, err := h.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var in domain.NewTask
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.Tasks.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var p domain.TaskPatch
	if !bindJSON(c, &p) {
		return
	}
	t, err := h.Tasks.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	t, err := h.Tasks.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Task deleted successfully",
		"deleted_task": t,
	})
}
