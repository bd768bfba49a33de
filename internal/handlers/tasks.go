package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/models"
)

// TaskHandler serves /api/tasks.
type TaskHandler struct {
	resource[models.Task]
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks db.TaskCollection, publisher events.Publisher, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{resource[models.Task]{
		path: "tasks",
		list: func(r *http.Request) ([]models.Task, error) {
			q := r.URL.Query()
			return tasks.FindTasks(r.Context(), db.TaskFilter{
				Status:    q.Get("status"),
				Priority:  q.Get("priority"),
				Assignee:  q.Get("assignee"),
				RiderID:   q.Get("riderId"),
				VehicleID: q.Get("vehicleId"),
			})
		},
		create:         tasks.InsertTask,
		get:            tasks.FindTaskByID,
		update:         tasks.UpdateTask,
		remove:         tasks.DeleteTask,
		ident:          func(t *models.Task) (string, string) { return t.ID.Hex(), "" },
		deletedMessage: "Task deleted successfully",
		publisher:      orNop(publisher),
		log:            log,
	}}
}
