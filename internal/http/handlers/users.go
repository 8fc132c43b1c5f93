package handlers

import (
	"errors"
	"io"
	"net/http"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateUser(c *gin.Context) {
	var in domain.NewUser
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Users.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var p domain.UserPatch
	if !bindJSON(c, &p) {
		return
	}
	u, err := h.Users.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	u, err := h.Users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "User successfully deleted",
		"deleted_user": u,
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login refreshes last_login. With bearer auth enabled the password is
// required and a token is returned.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if h.Tokens != nil && req.Password == "" {
		respondError(c, domain.Validation("password", "password is required"))
		return
	}

	u, err := h.Users.Login(c.Request.Context(), c.Param("id"), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"user": u}
	if h.Tokens != nil {
		tok, err := h.Tokens.Generate(u.ID)
		if err != nil {
			respondError(c, domain.Internal("sign token", err))
			return
		}
		resp["token"] = tok
	}
	c.JSON(http.StatusOK, resp)
}
