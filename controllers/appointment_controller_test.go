package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/clinic-landing-api/models"
	"github.com/kendall-kelly/clinic-landing-api/storage"
	"github.com/kendall-kelly/clinic-landing-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seoul = time.FixedZone("KST", 9*60*60)

func setupAppointmentRouter(store storage.Storage) *gin.Engine {
	router := gin.New()
	ac := NewAppointmentController(store, seoul)
	sc := NewServiceTypeController(store)
	router.POST("/api/service-types", sc.CreateServiceType)
	router.POST("/api/appointments", ac.CreateAppointment)
	router.GET("/api/appointments", ac.ListAppointments)
	router.GET("/api/appointments/date/:date", ac.ListAppointmentsByDate)
	router.PATCH("/api/appointments/:id/status", ac.UpdateAppointmentStatus)
	return router
}

func createServiceType(t *testing.T, router http.Handler) string {
	t.Helper()
	w := testutil.PerformJSON(t, router, http.MethodPost, "/api/service-types",
		map[string]interface{}{"name": "Consultation", "duration": 30})
	require.Equal(t, http.StatusOK, w.Code)

	var st models.ServiceType
	testutil.DecodeJSON(t, w, &st)
	return st.ID
}

func TestAppointmentBookingFlow(t *testing.T) {
	for backend, newStore := range backends() {
		t.Run(backend, func(t *testing.T) {
			router := setupAppointmentRouter(newStore(t))
			serviceTypeID := createServiceType(t, router)

			w := testutil.PerformJSON(t, router, http.MethodPost, "/api/appointments", map[string]interface{}{
				"name":            "Kim",
				"phone":           "010-0000-0000",
				"serviceTypeId":   serviceTypeID,
				"appointmentDate": "2025-03-01T09:00:00Z",
			})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var created map[string]interface{}
			testutil.DecodeJSON(t, w, &created)
			id, _ := created["id"].(string)
			require.NotEmpty(t, id)
			assert.Equal(t, "pending", created["status"])
			assert.Equal(t, serviceTypeID, created["serviceTypeId"])

			w = testutil.PerformJSON(t, router, http.MethodPatch, "/api/appointments/"+id+"/status",
				map[string]string{"status": "confirmed"})
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"success":true}`, w.Body.String())

			var list []models.Appointment
			w = testutil.PerformJSON(t, router, http.MethodGet, "/api/appointments", nil)
			require.Equal(t, http.StatusOK, w.Code)
			testutil.DecodeJSON(t, w, &list)
			require.Len(t, list, 1)
			assert.Equal(t, id, list[0].ID)
			assert.Equal(t, "confirmed", list[0].Status)
		})
	}
}

func TestCreateAppointmentWithLocation(t *testing.T) {
	router := setupAppointmentRouter(storage.NewMemoryStorage())

	w := testutil.PerformJSON(t, router, http.MethodPost, "/api/appointments", map[string]interface{}{
		"name":            "Park",
		"phone":           "010-1111-2222",
		"email":           "park@example.com",
		"appointmentDate": "2025-03-02T14:30:00+09:00",
		"address":         "서울 중구 세종대로 110",
		"latitude":        "37.56661400",
		"longitude":       "126.97838500",
		"notes":           "Second floor",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created models.Appointment
	testutil.DecodeJSON(t, w, &created)
	require.True(t, created.Latitude.Valid)
	assert.Equal(t, "37.566614", created.Latitude.Decimal.String())
	assert.Equal(t, "126.978385", created.Longitude.Decimal.String())
	require.NotNil(t, created.Address)
	assert.Equal(t, "서울 중구 세종대로 110", *created.Address)
}

func TestCreateAppointmentValidation(t *testing.T) {
	router := setupAppointmentRouter(storage.NewMemoryStorage())

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "missing name", body: map[string]interface{}{"phone": "010", "appointmentDate": "2025-03-01T09:00:00Z"}},
		{name: "missing phone", body: map[string]interface{}{"name": "Kim", "appointmentDate": "2025-03-01T09:00:00Z"}},
		{name: "missing date", body: map[string]interface{}{"name": "Kim", "phone": "010"}},
		{name: "unparsable date", body: map[string]interface{}{"name": "Kim", "phone": "010", "appointmentDate": "tomorrow"}},
		{name: "phone too long", body: map[string]interface{}{"name": "Kim", "phone": "010-0000-0000-0000-00", "appointmentDate": "2025-03-01T09:00:00Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.PerformJSON(t, router, http.MethodPost, "/api/appointments", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response map[string]interface{}
			testutil.DecodeJSON(t, w, &response)
			assert.NotEmpty(t, response["message"])
		})
	}
}

func TestListAppointmentsByDate(t *testing.T) {
	for backend, newStore := range backends() {
		t.Run(backend, func(t *testing.T) {
			router := setupAppointmentRouter(newStore(t))

			book := func(date string) string {
				w := testutil.PerformJSON(t, router, http.MethodPost, "/api/appointments", map[string]interface{}{
					"name": "Kim", "phone": "010", "appointmentDate": date,
				})
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())
				var a models.Appointment
				testutil.DecodeJSON(t, w, &a)
				return a.ID
			}

			startOfDay := book("2025-03-01T00:00:00+09:00")
			endOfDay := book("2025-03-01T23:59:59.999+09:00")
			nextDay := book("2025-03-02T00:00:00+09:00")
			// 23:30 on 2025-02-28 in Seoul
			book("2025-02-28T14:30:00Z")

			ids := func(path string) []string {
				w := testutil.PerformJSON(t, router, http.MethodGet, path, nil)
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())
				var list []models.Appointment
				testutil.DecodeJSON(t, w, &list)
				out := make([]string, 0, len(list))
				for _, a := range list {
					out = append(out, a.ID)
				}
				return out
			}

			assert.Equal(t, []string{startOfDay, endOfDay}, ids("/api/appointments/date/2025-03-01"))
			assert.Equal(t, []string{nextDay}, ids("/api/appointments/date/2025-03-02"))
			// A timestamp names the Seoul calendar day it falls on
			assert.Equal(t, []string{startOfDay, endOfDay}, ids("/api/appointments/date/2025-02-28T16:00:00Z"))
			assert.Empty(t, ids("/api/appointments/date/2025-03-03"))
		})
	}
}

func TestListAppointmentsByDateInvalid(t *testing.T) {
	router := setupAppointmentRouter(storage.NewMemoryStorage())

	w := testutil.PerformJSON(t, router, http.MethodGet, "/api/appointments/date/not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAppointmentStatusValidation(t *testing.T) {
	router := setupAppointmentRouter(storage.NewMemoryStorage())

	w := testutil.PerformJSON(t, router, http.MethodPatch, "/api/appointments/abc/status",
		map[string]string{"status": "no-show"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.PerformJSON(t, router, http.MethodPatch, "/api/appointments/abc/status",
		map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAppointmentStorageErrors(t *testing.T) {
	router := setupAppointmentRouter(brokenStore{})

	for _, path := range []string{"/api/appointments", "/api/appointments/date/2025-03-01"} {
		w := testutil.PerformJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.JSONEq(t, `{"message":"connection refused"}`, w.Body.String())
	}

	w := testutil.PerformJSON(t, router, http.MethodPatch, "/api/appointments/abc/status",
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{raw: "2025-03-01", want: time.Date(2025, 3, 1, 0, 0, 0, 0, seoul)},
		{raw: "2025-03-01T09:00:00Z", want: time.Date(2025, 3, 1, 18, 0, 0, 0, seoul)},
		{raw: "2025-02-28T20:00:00Z", want: time.Date(2025, 3, 1, 5, 0, 0, 0, seoul)},
		{raw: "2025-13-01", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDay(tt.raw, seoul)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Equal(t, seoul, got.Location())
		})
	}
}
