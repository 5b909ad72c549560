package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type memState struct {
	nextID       uint
	providers    map[uint]models.Provider
	services     map[uint]models.Service
	days         map[uint]schedule.WorkingDay
	breaks       map[uint]schedule.Break
	appointments map[uint]appointment.Appointment
}

func newMemState() *memState {
	return &memState{
		providers:    make(map[uint]models.Provider),
		services:     make(map[uint]models.Service),
		days:         make(map[uint]schedule.WorkingDay),
		breaks:       make(map[uint]schedule.Break),
		appointments: make(map[uint]appointment.Appointment),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.nextID = s.nextID
	for k, v := range s.providers {
		c.providers[k] = v
	}
	for k, v := range s.services {
		c.services[k] = v
	}
	for k, v := range s.days {
		c.days[k] = v
	}
	for k, v := range s.breaks {
		c.breaks[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	return c
}

func (s *memState) id() uint {
	s.nextID++
	return s.nextID
}

// MemoryRepository keeps everything in process. A transaction works on a
// copy of the state that replaces the original only when fn succeeds, and
// holds the lock for its whole duration.
type MemoryRepository struct {
	shared *memShared
	state  *memState
	inTx   bool
}

type memShared struct {
	mu    sync.Mutex
	state *memState
	fail  map[string]error
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		shared: &memShared{
			state: newMemState(),
			fail:  make(map[string]error),
			now:   time.Now,
		},
	}
}

// FailOn makes every later call of the named method return err.
func (r *MemoryRepository) FailOn(method string, err error) {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	r.shared.fail[method] = err
}

func (r *MemoryRepository) run(method string, fn func(s *memState) error) error {
	if r.inTx {
		if err := r.shared.fail[method]; err != nil {
			return err
		}
		return fn(r.state)
	}

	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	if err := r.shared.fail[method]; err != nil {
		return err
	}
	return fn(r.shared.state)
}

func (r *MemoryRepository) Transaction(
	ctx context.Context,
	fn func(tx schedule.Repository) error,
) error {

	if r.inTx {
		return fn(r)
	}

	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()

	tx := &MemoryRepository{shared: r.shared, state: r.shared.state.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.shared.state = tx.state
	return nil
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *MemoryRepository) AddProvider(p models.Provider) models.Provider {
	_ = r.run("AddProvider", func(s *memState) error {
		if p.ID == 0 {
			p.ID = s.id()
		} else if p.ID > s.nextID {
			s.nextID = p.ID
		}
		s.providers[p.ID] = p
		return nil
	})
	return p
}

func (r *MemoryRepository) AddService(svc models.Service) models.Service {
	_ = r.run("AddService", func(s *memState) error {
		if svc.ID == 0 {
			svc.ID = s.id()
		} else if svc.ID > s.nextID {
			s.nextID = svc.ID
		}
		s.services[svc.ID] = svc
		return nil
	})
	return svc
}

// --------------------------------------------------
// Provider / Service
// --------------------------------------------------

func (r *MemoryRepository) GetProviderByID(_ context.Context, id uint) (*models.Provider, error) {
	var out *models.Provider
	err := r.run("GetProviderByID", func(s *memState) error {
		p, ok := s.providers[id]
		if !ok {
			return fmt.Errorf("get provider: %w", schedule.ErrNotFound)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *MemoryRepository) GetProviderBySlug(_ context.Context, slug string) (*models.Provider, error) {
	var out *models.Provider
	err := r.run("GetProviderBySlug", func(s *memState) error {
		for _, p := range s.providers {
			if strings.EqualFold(p.Slug, slug) {
				p := p
				out = &p
				return nil
			}
		}
		return fmt.Errorf("get provider: %w", schedule.ErrNotFound)
	})
	return out, err
}

func (r *MemoryRepository) GetService(_ context.Context, providerID uint, serviceID uint) (*models.Service, error) {
	var out *models.Service
	err := r.run("GetService", func(s *memState) error {
		svc, ok := s.services[serviceID]
		if !ok || svc.ProviderID != providerID {
			return fmt.Errorf("get service: %w", schedule.ErrNotFound)
		}
		out = &svc
		return nil
	})
	return out, err
}

func (r *MemoryRepository) ListServices(_ context.Context, providerID uint, activeOnly bool) ([]models.Service, error) {
	out := make([]models.Service, 0)
	err := r.run("ListServices", func(s *memState) error {
		for _, svc := range s.services {
			if svc.ProviderID != providerID || (activeOnly && !svc.Active) {
				continue
			}
			out = append(out, svc)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// --------------------------------------------------
// Working days
// --------------------------------------------------

func (r *MemoryRepository) GetWorkingDay(_ context.Context, providerID uint, date time.Time) (*schedule.WorkingDay, error) {
	var out *schedule.WorkingDay
	err := r.run("GetWorkingDay", func(s *memState) error {
		for _, d := range s.days {
			if d.ProviderID == providerID && clocktime.SameDate(d.Date, date) {
				d := d
				out = &d
				return nil
			}
		}
		return fmt.Errorf("get working day: %w", schedule.ErrNotFound)
	})
	return out, err
}

func (r *MemoryRepository) GetWorkingDayByID(_ context.Context, providerID uint, id uint) (*schedule.WorkingDay, error) {
	var out *schedule.WorkingDay
	err := r.run("GetWorkingDayByID", func(s *memState) error {
		d, ok := s.days[id]
		if !ok || d.ProviderID != providerID {
			return fmt.Errorf("get working day: %w", schedule.ErrNotFound)
		}
		out = &d
		return nil
	})
	return out, err
}

func (r *MemoryRepository) ListWorkingDays(_ context.Context, providerID uint, from time.Time, to time.Time) ([]schedule.WorkingDay, error) {
	from, to = clocktime.DateOf(from), clocktime.DateOf(to)
	out := make([]schedule.WorkingDay, 0)
	err := r.run("ListWorkingDays", func(s *memState) error {
		for _, d := range s.days {
			if d.ProviderID == providerID && !d.Date.Before(from) && d.Date.Before(to) {
				out = append(out, d)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, err
}

func (r *MemoryRepository) CreateWorkingDay(_ context.Context, day *schedule.WorkingDay) error {
	return r.run("CreateWorkingDay", func(s *memState) error {
		day.Date = clocktime.DateOf(day.Date)
		for _, d := range s.days {
			if d.ProviderID == day.ProviderID && clocktime.SameDate(d.Date, day.Date) {
				return schederr.Conflict(schederr.ReasonWorkingDayExists)
			}
		}
		day.ID = s.id()
		s.days[day.ID] = *day
		return nil
	})
}

func (r *MemoryRepository) UpdateWorkingDay(_ context.Context, day *schedule.WorkingDay) error {
	return r.run("UpdateWorkingDay", func(s *memState) error {
		cur, ok := s.days[day.ID]
		if !ok {
			return fmt.Errorf("update working day: %w", schedule.ErrNotFound)
		}
		cur.Start, cur.End, cur.SlotInterval = day.Start, day.End, day.SlotInterval
		s.days[day.ID] = cur
		return nil
	})
}

func (r *MemoryRepository) DeleteWorkingDay(_ context.Context, id uint) error {
	return r.run("DeleteWorkingDay", func(s *memState) error {
		delete(s.days, id)
		return nil
	})
}

// --------------------------------------------------
// Breaks
// --------------------------------------------------

func (r *MemoryRepository) ListBreaks(_ context.Context, workingDayID uint) ([]schedule.Break, error) {
	out := make([]schedule.Break, 0)
	err := r.run("ListBreaks", func(s *memState) error {
		for _, b := range s.breaks {
			if b.WorkingDayID == workingDayID {
				out = append(out, b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, err
}

func (r *MemoryRepository) CreateBreak(_ context.Context, b *schedule.Break) error {
	return r.run("CreateBreak", func(s *memState) error {
		b.ID = s.id()
		s.breaks[b.ID] = *b
		return nil
	})
}

func (r *MemoryRepository) UpdateBreak(_ context.Context, b *schedule.Break) error {
	return r.run("UpdateBreak", func(s *memState) error {
		cur, ok := s.breaks[b.ID]
		if !ok {
			return fmt.Errorf("update break: %w", schedule.ErrNotFound)
		}
		cur.Start, cur.End = b.Start, b.End
		s.breaks[b.ID] = cur
		return nil
	})
}

func (r *MemoryRepository) DeleteBreak(_ context.Context, id uint) error {
	return r.run("DeleteBreak", func(s *memState) error {
		delete(s.breaks, id)
		return nil
	})
}

func (r *MemoryRepository) DeleteBreaksForDay(_ context.Context, workingDayID uint) error {
	return r.run("DeleteBreaksForDay", func(s *memState) error {
		for id, b := range s.breaks {
			if b.WorkingDayID == workingDayID {
				delete(s.breaks, id)
			}
		}
		return nil
	})
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *MemoryRepository) GetAppointment(_ context.Context, providerID uint, id uint) (*appointment.Appointment, error) {
	var out *appointment.Appointment
	err := r.run("GetAppointment", func(s *memState) error {
		ap, ok := s.appointments[id]
		if !ok || ap.ProviderID != providerID {
			return fmt.Errorf("get appointment: %w", schedule.ErrNotFound)
		}
		out = &ap
		return nil
	})
	return out, err
}

func (r *MemoryRepository) ListAppointments(_ context.Context, providerID uint, from time.Time, to time.Time) ([]appointment.Appointment, error) {
	from, to = clocktime.DateOf(from), clocktime.DateOf(to)
	out := make([]appointment.Appointment, 0)
	err := r.run("ListAppointments", func(s *memState) error {
		for _, ap := range s.appointments {
			if ap.ProviderID == providerID && !ap.Date.Before(from) && ap.Date.Before(to) {
				if svc, ok := s.services[ap.ServiceID]; ok {
					ap.ServiceName = svc.Name
				}
				out = append(out, ap)
			}
		}
		return nil
	})
	sortAppointments(out)
	return out, err
}

func (r *MemoryRepository) ListActiveAppointments(_ context.Context, providerID uint, dates ...time.Time) ([]appointment.Appointment, error) {
	out := make([]appointment.Appointment, 0)
	err := r.run("ListActiveAppointments", func(s *memState) error {
		for _, ap := range s.appointments {
			if ap.ProviderID != providerID || !ap.IsActive() {
				continue
			}
			for _, d := range dates {
				if ap.OnDate(d) {
					out = append(out, ap)
					break
				}
			}
		}
		return nil
	})
	sortAppointments(out)
	return out, err
}

// CreateAppointment refuses an overlapping active appointment the way the
// PostgreSQL exclusion constraint does.
func (r *MemoryRepository) CreateAppointment(_ context.Context, ap *appointment.Appointment) error {
	return r.run("CreateAppointment", func(s *memState) error {
		ap.Date = clocktime.DateOf(ap.Date)
		if err := s.checkOverlap(*ap); err != nil {
			return err
		}
		ap.ID = s.id()
		ap.CreatedAt = r.shared.now()
		s.appointments[ap.ID] = *ap
		return nil
	})
}

func (r *MemoryRepository) UpdateAppointment(_ context.Context, ap *appointment.Appointment) error {
	return r.run("UpdateAppointment", func(s *memState) error {
		cur, ok := s.appointments[ap.ID]
		if !ok || cur.ProviderID != ap.ProviderID {
			return fmt.Errorf("update appointment %d: %w", ap.ID, schedule.ErrNotFound)
		}
		ap.Date = clocktime.DateOf(ap.Date)
		if err := s.checkOverlap(*ap); err != nil {
			return err
		}
		ap.CreatedAt = cur.CreatedAt
		ap.ServiceName = ""
		s.appointments[ap.ID] = *ap
		return nil
	})
}

func (s *memState) checkOverlap(ap appointment.Appointment) error {
	if !ap.IsActive() {
		return nil
	}
	others := make([]appointment.Appointment, 0, len(s.appointments))
	for _, o := range s.appointments {
		others = append(others, o)
	}
	return schedule.CheckPlacement(schedule.Placement{
		AppointmentID: ap.ID,
		ProviderID:    ap.ProviderID,
		Date:          ap.Date,
		Start:         ap.Start,
		End:           ap.End,
	}, others)
}

func sortAppointments(aps []appointment.Appointment) {
	sort.Slice(aps, func(i, j int) bool {
		if !aps[i].Date.Equal(aps[j].Date) {
			return aps[i].Date.Before(aps[j].Date)
		}
		return aps[i].Start < aps[j].Start
	})
}

// Compile-time check
var _ schedule.Repository = (*MemoryRepository)(nil)
