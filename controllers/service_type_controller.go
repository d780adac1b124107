package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/clinic-landing-api/models"
	"github.com/kendall-kelly/clinic-landing-api/storage"
)

// ServiceTypeController serves the bookable services catalogue
type ServiceTypeController struct {
	store storage.Storage
}

func NewServiceTypeController(store storage.Storage) *ServiceTypeController {
	return &ServiceTypeController{store: store}
}

// ListServiceTypes handles GET /api/service-types - active types ordered by name
func (sc *ServiceTypeController) ListServiceTypes(c *gin.Context) {
	serviceTypes, err := sc.store.GetAllServiceTypes(c.Request.Context())
	if err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, serviceTypes)
}

// CreateServiceType handles POST /api/service-types
func (sc *ServiceTypeController) CreateServiceType(c *gin.Context) {
	var req models.InsertServiceType
	if err := bindJSON(c, &req); err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}

	serviceType, err := sc.store.CreateServiceType(c.Request.Context(), req)
	if err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, serviceType)
}
