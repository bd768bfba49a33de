package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/models"
)

// FaultHandler serves /api/faults.
type FaultHandler struct {
	resource[models.Fault]
}

// NewFaultHandler creates a new fault handler
func NewFaultHandler(faults db.FaultCollection, publisher events.Publisher, log logrus.FieldLogger) *FaultHandler {
	return &FaultHandler{resource[models.Fault]{
		path: "faults",
		list: func(r *http.Request) ([]models.Fault, error) {
			q := r.URL.Query()
			return faults.FindFaults(r.Context(), db.FaultFilter{
				Status:    q.Get("status"),
				Severity:  q.Get("severity"),
				RiderID:   q.Get("riderId"),
				VehicleID: q.Get("vehicleId"),
				Search:    q.Get("search"),
			})
		},
		create:         faults.InsertFault,
		get:            faults.FindFaultByID,
		update:         faults.UpdateFault,
		remove:         faults.DeleteFault,
		ident:          func(f *models.Fault) (string, string) { return f.ID.Hex(), f.SequenceNumber },
		deletedMessage: "Fault deleted successfully",
		publisher:      orNop(publisher),
		log:            log,
	}}
}
