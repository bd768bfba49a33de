// Package handlers implements the REST API under /api.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/apperr"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/middleware"
	"github.com/ukydev/fleet-crm/internal/respond"
)

const maxBodyBytes = 1 << 20

// resource serves the collection and item endpoints of one record type.
type resource[T any] struct {
	path string // URL segment and event resource, e.g. "riders"

	list   func(r *http.Request) ([]T, error)
	create func(ctx context.Context, rec *T, actor string) error
	get    func(ctx context.Context, id string) (*T, error)
	update func(ctx context.Context, id string, patch []byte, actor string) (*T, error)
	remove func(ctx context.Context, id string) error
	// ident returns the id and, for numbered records, the sequence number.
	ident func(rec *T) (string, string)
	// actions are POST sub-routes such as /{id}/end.
	actions map[string]http.HandlerFunc

	deletedMessage string
	publisher      events.Publisher
	log            logrus.FieldLogger
}

func (res *resource[T]) prefix() string {
	return "/api/" + res.path
}

// register adds the collection and item routes to mux.
func (res *resource[T]) register(mux *http.ServeMux) {
	mux.HandleFunc(res.prefix(), res.serveCollection)
	mux.HandleFunc(res.prefix()+"/", res.serveItem)
}

func (res *resource[T]) serveCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		res.handleList(w, r)
	case http.MethodPost:
		res.handleCreate(w, r)
	default:
		res.fail(w, r, apperr.MethodNotAllowed(r.Method))
	}
}

func (res *resource[T]) serveItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, res.prefix()+"/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		res.fail(w, r, apperr.ErrMissingID)
		return
	}
	if action != "" {
		h, ok := res.actions[action]
		if !ok {
			res.fail(w, r, apperr.NotFound("route not found", nil))
			return
		}
		if r.Method != http.MethodPost {
			res.fail(w, r, apperr.MethodNotAllowed(r.Method))
			return
		}
		h(w, withID(r, id))
		return
	}

	switch r.Method {
	case http.MethodGet:
		res.handleGet(w, r, id)
	case http.MethodPut:
		res.handleUpdate(w, r, id)
	case http.MethodDelete:
		res.handleDelete(w, r, id)
	default:
		res.fail(w, r, apperr.MethodNotAllowed(r.Method))
	}
}

func (res *resource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := res.list(r)
	if err != nil {
		res.fail(w, r, err)
		return
	}
	respond.List(w, items)
}

func (res *resource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		res.fail(w, r, err)
		return
	}
	rec := new(T)
	if err := json.Unmarshal(body, rec); err != nil {
		res.fail(w, r, apperr.BadRequest("invalid JSON body", err))
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	if err := res.create(r.Context(), rec, actor); err != nil {
		res.fail(w, r, err)
		return
	}
	res.publish(r, events.TypeCreated, rec)
	respond.Created(w, rec)
}

func (res *resource[T]) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := res.get(r.Context(), id)
	if err != nil {
		res.fail(w, r, err)
		return
	}
	respond.OK(w, rec)
}

func (res *resource[T]) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	body, err := readBody(w, r)
	if err != nil {
		res.fail(w, r, err)
		return
	}
	rec, err := res.update(r.Context(), id, body, middleware.ActorFromContext(r.Context()))
	if err != nil {
		res.fail(w, r, err)
		return
	}
	res.publish(r, events.TypeUpdated, rec)
	respond.OK(w, rec)
}

func (res *resource[T]) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := res.remove(r.Context(), id); err != nil {
		res.fail(w, r, err)
		return
	}
	res.publishEvent(r, events.Event{Type: events.TypeDeleted, ID: id})
	respond.Message(w, res.deletedMessage)
}

func (res *resource[T]) publish(r *http.Request, eventType string, rec *T) {
	id, seq := res.ident(rec)
	res.publishEvent(r, events.Event{Type: eventType, ID: id, SequenceNumber: seq})
}

// publishEvent fills in the common fields and sends ev. A failed publish
// is logged and never fails the request.
func (res *resource[T]) publishEvent(r *http.Request, ev events.Event) {
	ev.Resource = res.path
	ev.Actor = middleware.ActorFromContext(r.Context())
	ev.At = time.Now().UTC()
	if err := res.publisher.Publish(r.Context(), ev); err != nil {
		res.logger(r).WithError(err).WithField("event", ev.Type).Warn("Failed to publish event")
	}
}

func (res *resource[T]) logger(r *http.Request) logrus.FieldLogger {
	return middleware.LoggerFromContext(r.Context(), res.log)
}

func (res *resource[T]) fail(w http.ResponseWriter, r *http.Request, err error) {
	respond.Error(w, res.logger(r), err)
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.BadRequest("request body too large", err)
		}
		return nil, apperr.BadRequest("failed to read request body", err)
	}
	return body, nil
}

type idKey struct{}

func withID(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), idKey{}, id))
}

func idFrom(r *http.Request) string {
	id, _ := r.Context().Value(idKey{}).(string)
	return id
}
