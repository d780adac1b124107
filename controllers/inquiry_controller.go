package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/clinic-landing-api/models"
	"github.com/kendall-kelly/clinic-landing-api/storage"
)

// InquiryController serves the contact form and the admin inquiry list
type InquiryController struct {
	store storage.Storage
}

func NewInquiryController(store storage.Storage) *InquiryController {
	return &InquiryController{store: store}
}

// CreateInquiry handles POST /api/inquiries - public contact form submission
func (ic *InquiryController) CreateInquiry(c *gin.Context) {
	var req models.InsertInquiry
	if err := bindJSON(c, &req); err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}

	inquiry, err := ic.store.CreateInquiry(c.Request.Context(), req)
	if err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, inquiry)
}

// ListInquiries handles GET /api/inquiries - newest first
func (ic *InquiryController) ListInquiries(c *gin.Context) {
	inquiries, err := ic.store.GetAllInquiries(c.Request.Context())
	if err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, inquiries)
}

// UpdateInquiryStatus handles PATCH /api/inquiries/:id/status
func (ic *InquiryController) UpdateInquiryStatus(c *gin.Context) {
	var req models.StatusUpdate
	if err := bindJSON(c, &req); err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}
	if !models.IsValidInquiryStatus(req.Status) {
		errorMessage(c, http.StatusBadRequest, fmt.Errorf("invalid inquiry status %q", req.Status))
		return
	}

	if err := ic.store.UpdateInquiryStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	success(c)
}
