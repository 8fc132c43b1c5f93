package handlers

import (
	"net/http"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.Members.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *Handler) AddMember(c *gin.Context) {
	var in domain.NewMember
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.Members.Add(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Member added", "member": m})
}

func (h *Handler) RemoveMember(c *gin.Context) {
	res, err := h.Members.Remove(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{"message": "Member removed", "removed": res.Removed}
	if res.Promoted != nil {
		body["promoted"] = res.Promoted
	}
	c.JSON(http.StatusOK, body)
}
