package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/apperr"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/middleware"
	"github.com/ukydev/fleet-crm/internal/models"
	"github.com/ukydev/fleet-crm/internal/respond"
)

// AssignmentHandler serves /api/assignments and /api/assignments/{id}/end.
type AssignmentHandler struct {
	resource[models.Assignment]
	assignments db.AssignmentCollection
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignments db.AssignmentCollection, publisher events.Publisher, log logrus.FieldLogger) *AssignmentHandler {
	h := &AssignmentHandler{
		resource: resource[models.Assignment]{
			path: "assignments",
			list: func(r *http.Request) ([]models.Assignment, error) {
				q := r.URL.Query()
				active, err := queryBool(q, "active")
				if err != nil {
					return nil, err
				}
				return assignments.FindAssignments(r.Context(), db.AssignmentFilter{
					RiderID:   q.Get("riderId"),
					VehicleID: q.Get("vehicleId"),
					Active:    active,
				})
			},
			create:         assignments.InsertAssignment,
			get:            assignments.FindAssignmentByID,
			update:         assignments.UpdateAssignment,
			remove:         assignments.DeleteAssignment,
			ident:          func(a *models.Assignment) (string, string) { return a.ID.Hex(), "" },
			deletedMessage: "Assignment deleted successfully",
			publisher:      orNop(publisher),
			log:            log,
		},
		assignments: assignments,
	}
	h.actions = map[string]http.HandlerFunc{"end": h.End}
	return h
}

// End closes an active assignment. The body is optional.
func (h *AssignmentHandler) End(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var end db.EndAssignment
	if len(body) > 0 {
		if err := json.Unmarshal(body, &end); err != nil {
			h.fail(w, r, apperr.BadRequest("invalid JSON body", err))
			return
		}
	}
	assignment, err := h.assignments.EndAssignment(r.Context(), idFrom(r), end, middleware.ActorFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.publish(r, events.TypeEnded, assignment)
	respond.OK(w, assignment)
}
