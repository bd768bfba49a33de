package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/apperr"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/respond"
)

// Collections is the storage the API serves.
type Collections struct {
	Riders        db.RiderCollection
	Vehicles      db.VehicleCollection
	Assignments   db.AssignmentCollection
	Faults        db.FaultCollection
	Maintenance   db.MaintenanceCollection
	MonthlyChecks db.MonthlyCheckCollection
	Tasks         db.TaskCollection
}

// CollectionsFromStore exposes a store's collections to the API.
func CollectionsFromStore(s *db.Store) Collections {
	return Collections{
		Riders:        s.Riders,
		Vehicles:      s.Vehicles,
		Assignments:   s.Assignments,
		Faults:        s.Faults,
		Maintenance:   s.Maintenance,
		MonthlyChecks: s.MonthlyChecks,
		Tasks:         s.Tasks,
	}
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter registers every API route.
func NewRouter(c Collections, pinger Pinger, publisher events.Publisher, log logrus.FieldLogger) *http.ServeMux {
	mux := http.NewServeMux()
	NewRiderHandler(c.Riders, publisher, log).register(mux)
	NewVehicleHandler(c.Vehicles, publisher, log).register(mux)
	NewAssignmentHandler(c.Assignments, publisher, log).register(mux)
	NewFaultHandler(c.Faults, publisher, log).register(mux)
	NewMaintenanceHandler(c.Maintenance, publisher, log).register(mux)
	NewMonthlyCheckHandler(c.MonthlyChecks, publisher, log).register(mux)
	NewTaskHandler(c.Tasks, publisher, log).register(mux)
	mux.Handle("/health", NewHealthHandler(pinger, log))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, log, apperr.NotFound("route not found", nil))
	})
	return mux
}

// HealthHandler serves /health.
type HealthHandler struct {
	pinger Pinger
	log    logrus.FieldLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pinger Pinger, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{pinger: pinger, log: log}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.Error(w, h.log, apperr.MethodNotAllowed(r.Method))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.pinger.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		respond.JSON(w, http.StatusServiceUnavailable, respond.Envelope{
			Message: "database unavailable",
			Data:    map[string]string{"status": "degraded", "database": "down"},
		})
		return
	}
	respond.OK(w, map[string]string{"status": "ok", "database": "up"})
}

func orNop(p events.Publisher) events.Publisher {
	if p == nil {
		return events.Nop{}
	}
	return p
}
