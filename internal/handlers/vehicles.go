package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/models"
)

// VehicleHandler serves /api/vehicles.
type VehicleHandler struct {
	resource[models.Vehicle]
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles db.VehicleCollection, publisher events.Publisher, log logrus.FieldLogger) *VehicleHandler {
	return &VehicleHandler{resource[models.Vehicle]{
		path: "vehicles",
		list: func(r *http.Request) ([]models.Vehicle, error) {
			q := r.URL.Query()
			return vehicles.FindVehicles(r.Context(), db.VehicleFilter{
				Status:       q.Get("status"),
				Manufacturer: q.Get("manufacturer"),
				Search:       q.Get("search"),
			})
		},
		create:         vehicles.InsertVehicle,
		get:            vehicles.FindVehicleByID,
		update:         vehicles.UpdateVehicle,
		remove:         vehicles.DeleteVehicle,
		ident:          func(v *models.Vehicle) (string, string) { return v.ID.Hex(), "" },
		deletedMessage: "Vehicle deleted successfully",
		publisher:      orNop(publisher),
		log:            log,
	}}
}
