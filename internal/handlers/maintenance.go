package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/models"
)

// MaintenanceHandler serves /api/maintenance.
type MaintenanceHandler struct {
	resource[models.Maintenance]
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(records db.MaintenanceCollection, publisher events.Publisher, log logrus.FieldLogger) *MaintenanceHandler {
	return &MaintenanceHandler{resource[models.Maintenance]{
		path: "maintenance",
		list: func(r *http.Request) ([]models.Maintenance, error) {
			q := r.URL.Query()
			return records.FindMaintenance(r.Context(), db.MaintenanceFilter{
				Status:    q.Get("status"),
				VehicleID: q.Get("vehicleId"),
				FaultID:   q.Get("faultId"),
			})
		},
		create:         records.InsertMaintenance,
		get:            records.FindMaintenanceByID,
		update:         records.UpdateMaintenance,
		remove:         records.DeleteMaintenance,
		ident:          func(m *models.Maintenance) (string, string) { return m.ID.Hex(), m.SequenceNumber },
		deletedMessage: "Maintenance record deleted successfully",
		publisher:      orNop(publisher),
		log:            log,
	}}
}
