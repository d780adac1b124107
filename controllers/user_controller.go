package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/clinic-landing-api/models"
	"github.com/kendall-kelly/clinic-landing-api/storage"
)

// UserController exposes stored user profiles to the operator
type UserController struct {
	store storage.Storage
}

func NewUserController(store storage.Storage) *UserController {
	return &UserController{store: store}
}

// GetUser handles GET /api/admin/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.store.GetUser(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpsertUser handles PUT /api/admin/users/:id - creates the profile or merges the
// supplied fields into it
func (uc *UserController) UpsertUser(c *gin.Context) {
	var req models.UpsertUser
	if err := bindJSON(c, &req); err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}
	req.ID = c.Param("id")

	user, err := uc.store.UpsertUser(c.Request.Context(), req)
	if err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
