// Package respond writes the JSON envelope every API response uses.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/apperr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Count   *int              `json:"count,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes env with status.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 with data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with the new record.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// List writes a 200 with items and their count.
func List[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	JSON(w, http.StatusOK, Envelope{Success: true, Data: items, Count: &n})
}

// Message writes a 200 carrying only a message.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: msg})
}

// Error writes err as an error envelope. Server errors are logged with
// their cause and reach the client only as a generic message.
func Error(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	appErr := apperr.From(err)
	if appErr.Status >= http.StatusInternalServerError && log != nil {
		log.WithError(err).Error("Request failed")
	}
	JSON(w, appErr.Status, Envelope{Message: appErr.Message, Errors: appErr.Fields})
}
