package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/models"
)

// RiderHandler serves /api/riders.
type RiderHandler struct {
	resource[models.Rider]
}

// NewRiderHandler creates a new rider handler
func NewRiderHandler(riders db.RiderCollection, publisher events.Publisher, log logrus.FieldLogger) *RiderHandler {
	return &RiderHandler{resource[models.Rider]{
		path: "riders",
		list: func(r *http.Request) ([]models.Rider, error) {
			q := r.URL.Query()
			return riders.FindRiders(r.Context(), db.RiderFilter{
				RiderStatus:      q.Get("riderStatus"),
				AssignmentStatus: q.Get("assignmentStatus"),
				Region:           q.Get("region"),
				Search:           q.Get("search"),
			})
		},
		create:         riders.InsertRider,
		get:            riders.FindRiderByID,
		update:         riders.UpdateRider,
		remove:         riders.DeleteRider,
		ident:          func(r *models.Rider) (string, string) { return r.ID.Hex(), "" },
		deletedMessage: "Rider deleted successfully",
		publisher:      orNop(publisher),
		log:            log,
	}}
}
