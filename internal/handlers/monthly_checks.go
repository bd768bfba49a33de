package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/models"
)

// MonthlyCheckHandler serves /api/monthly-checks.
type MonthlyCheckHandler struct {
	resource[models.MonthlyCheck]
}

// NewMonthlyCheckHandler creates a new monthly check handler
func NewMonthlyCheckHandler(checks db.MonthlyCheckCollection, publisher events.Publisher, log logrus.FieldLogger) *MonthlyCheckHandler {
	return &MonthlyCheckHandler{resource[models.MonthlyCheck]{
		path: "monthly-checks",
		list: func(r *http.Request) ([]models.MonthlyCheck, error) {
			q := r.URL.Query()
			month, err := queryInt(q, "month")
			if err != nil {
				return nil, err
			}
			year, err := queryInt(q, "year")
			if err != nil {
				return nil, err
			}
			return checks.FindMonthlyChecks(r.Context(), db.MonthlyCheckFilter{
				Status:    q.Get("status"),
				RiderID:   q.Get("riderId"),
				VehicleID: q.Get("vehicleId"),
				Month:     month,
				Year:      year,
			})
		},
		create:         checks.InsertMonthlyCheck,
		get:            checks.FindMonthlyCheckByID,
		update:         checks.UpdateMonthlyCheck,
		remove:         checks.DeleteMonthlyCheck,
		ident:          func(c *models.MonthlyCheck) (string, string) { return c.ID.Hex(), "" },
		deletedMessage: "Monthly check deleted successfully",
		publisher:      orNop(publisher),
		log:            log,
	}}
}
