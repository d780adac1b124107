package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/clinic-landing-api/models"
	"github.com/kendall-kelly/clinic-landing-api/storage"
)

// AppointmentController serves bookings and the admin calendar
type AppointmentController struct {
	store storage.Storage
	loc   *time.Location
}

// NewAppointmentController creates a controller whose calendar days are taken in loc
func NewAppointmentController(store storage.Storage, loc *time.Location) *AppointmentController {
	if loc == nil {
		loc = time.Local
	}
	return &AppointmentController{store: store, loc: loc}
}

// CreateAppointment handles POST /api/appointments - new bookings always start pending
func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var req models.InsertAppointment
	if err := bindJSON(c, &req); err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}

	appointment, err := ac.store.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// ListAppointments handles GET /api/appointments - latest appointment date first
func (ac *AppointmentController) ListAppointments(c *gin.Context) {
	appointments, err := ac.store.GetAllAppointments(c.Request.Context())
	if err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// ListAppointmentsByDate handles GET /api/appointments/date/:date. The date is either
// YYYY-MM-DD or an RFC 3339 timestamp; both name a calendar day in the configured zone.
func (ac *AppointmentController) ListAppointmentsByDate(c *gin.Context) {
	day, err := ParseDay(c.Param("date"), ac.loc)
	if err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}

	appointments, err := ac.store.GetAppointmentsByDate(c.Request.Context(), day)
	if err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// UpdateAppointmentStatus handles PATCH /api/appointments/:id/status
func (ac *AppointmentController) UpdateAppointmentStatus(c *gin.Context) {
	var req models.StatusUpdate
	if err := bindJSON(c, &req); err != nil {
		errorMessage(c, http.StatusBadRequest, err)
		return
	}
	if !models.IsValidAppointmentStatus(req.Status) {
		errorMessage(c, http.StatusBadRequest, fmt.Errorf("invalid appointment status %q", req.Status))
		return
	}

	if err := ac.store.UpdateAppointmentStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	success(c)
}

// ParseDay reads a calendar day from raw in loc
func ParseDay(raw string, loc *time.Location) (time.Time, error) {
	if day, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return day, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
}
