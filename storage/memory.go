package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/clinic-landing-api/models"
)

// MemoryStorage keeps everything in process memory. Contents are lost on restart. Sort
// orders match DatabaseStorage and are computed from timestamps and names, never from
// insertion order alone.
type MemoryStorage struct {
	mu           sync.RWMutex
	users        map[string]models.User
	inquiries    []models.Inquiry
	serviceTypes []models.ServiceType
	appointments []models.Appointment
}

// NewMemoryStorage creates an empty volatile store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users: make(map[string]models.User),
	}
}

func (s *MemoryStorage) Kind() string {
	return KindMemory
}

func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStorage) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	user, ok := s.users[in.ID]
	if !ok {
		user = models.User{ID: in.ID, CreatedAt: now}
		if user.ID == "" {
			user.ID = uuid.NewString()
		}
	}
	in.Apply(&user)
	user.UpdatedAt = now
	s.users[user.ID] = user

	return &user, nil
}

func (s *MemoryStorage) CreateInquiry(ctx context.Context, in models.InsertInquiry) (*models.Inquiry, error) {
	inquiry := in.ToInquiry()
	inquiry.ID = uuid.NewString()
	inquiry.CreatedAt = time.Now()

	s.mu.Lock()
	s.inquiries = append(s.inquiries, inquiry)
	s.mu.Unlock()

	return &inquiry, nil
}

func (s *MemoryStorage) GetAllInquiries(ctx context.Context) ([]models.Inquiry, error) {
	s.mu.RLock()
	out := newestFirst(s.inquiries)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStorage) UpdateInquiryStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.inquiries {
		if s.inquiries[i].ID == id {
			s.inquiries[i].Status = status
			return nil
		}
	}
	return nil
}

func (s *MemoryStorage) GetAllServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	s.mu.RLock()
	out := make([]models.ServiceType, 0, len(s.serviceTypes))
	for _, st := range s.serviceTypes {
		if st.Active() {
			out = append(out, st)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MemoryStorage) CreateServiceType(ctx context.Context, in models.InsertServiceType) (*models.ServiceType, error) {
	serviceType := in.ToServiceType()
	serviceType.ID = uuid.NewString()
	serviceType.CreatedAt = time.Now()

	s.mu.Lock()
	s.serviceTypes = append(s.serviceTypes, serviceType)
	s.mu.Unlock()

	return &serviceType, nil
}

func (s *MemoryStorage) CreateAppointment(ctx context.Context, in models.InsertAppointment) (*models.Appointment, error) {
	appointment := in.ToAppointment()
	now := time.Now()
	appointment.ID = uuid.NewString()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	s.mu.Lock()
	s.appointments = append(s.appointments, appointment)
	s.mu.Unlock()

	return &appointment, nil
}

func (s *MemoryStorage) GetAllAppointments(ctx context.Context) ([]models.Appointment, error) {
	s.mu.RLock()
	out := newestFirst(s.appointments)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppointmentDate.After(out[j].AppointmentDate)
	})
	return out, nil
}

func (s *MemoryStorage) GetAppointmentsByDate(ctx context.Context, day time.Time) ([]models.Appointment, error) {
	start, end := DayBounds(day)

	s.mu.RLock()
	out := []models.Appointment{}
	for _, a := range s.appointments {
		if !a.AppointmentDate.Before(start) && !a.AppointmentDate.After(end) {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppointmentDate.Before(out[j].AppointmentDate)
	})
	return out, nil
}

func (s *MemoryStorage) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i].Status = status
			s.appointments[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

// newestFirst copies items in reverse insertion order so that equal sort keys keep the
// most recent record first.
func newestFirst[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}
