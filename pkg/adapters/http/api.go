package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// SubscribeEventsParams defines parameters for SubscribeEvents.
type SubscribeEventsParams struct {
	// Watch is a comma separated list of snapshot fields to stream.
	Watch *string `form:"watch,omitempty" json:"watch,omitempty"`
}

// ServerInterface represents all server handlers of openapi.yaml.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /info)
	GetInfo(w http.ResponseWriter, r *http.Request)
	// (POST /evaluate)
	Evaluate(w http.ResponseWriter, r *http.Request)
	// (GET /sessions)
	ListSessions(w http.ResponseWriter, r *http.Request)
	// (POST /sessions)
	CreateSession(w http.ResponseWriter, r *http.Request)
	// (GET /sessions/{id})
	GetSession(w http.ResponseWriter, r *http.Request, id string)
	// (DELETE /sessions/{id})
	DeleteSession(w http.ResponseWriter, r *http.Request, id string)
	// (POST /sessions/{id}/keys)
	PressKeys(w http.ResponseWriter, r *http.Request, id string)
	// (POST /sessions/{id}/evaluate)
	EvaluateSession(w http.ResponseWriter, r *http.Request, id string)
	// (GET /sessions/{id}/history)
	GetHistory(w http.ResponseWriter, r *http.Request, id string)
	// (POST /sessions/{id}/history/{index})
	SelectHistory(w http.ResponseWriter, r *http.Request, id string, index int)
	// (GET /sessions/{id}/events)
	SubscribeEvents(w http.ResponseWriter, r *http.Request, id string, params SubscribeEventsParams)
}

// paramError reports a path or query parameter that could not be bound.
type paramError struct {
	Name string
	Err  error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %v", e.Name, e.Err)
}

func (e *paramError) Unwrap() error {
	return e.Err
}

type serverInterfaceWrapper struct {
	handler      ServerInterface
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandler(w, r, &paramError{Name: "id", Err: err})
		return "", false
	}
	return id, true
}

func (siw *serverInterfaceWrapper) withID(fn func(w http.ResponseWriter, r *http.Request, id string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := siw.sessionID(w, r)
		if !ok {
			return
		}
		fn(w, r, id)
	}
}

func (siw *serverInterfaceWrapper) SelectHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.sessionID(w, r)
	if !ok {
		return
	}

	var index int
	err := runtime.BindStyledParameterWithOptions("simple", "index", chi.URLParam(r, "index"), &index,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandler(w, r, &paramError{Name: "index", Err: err})
		return
	}

	siw.handler.SelectHistory(w, r, id, index)
}

func (siw *serverInterfaceWrapper) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.sessionID(w, r)
	if !ok {
		return
	}

	var params SubscribeEventsParams
	if err := runtime.BindQueryParameter("form", true, false, "watch", r.URL.Query(), &params.Watch); err != nil {
		siw.errorHandler(w, r, &paramError{Name: "watch", Err: err})
		return
	}

	siw.handler.SubscribeEvents(w, r, id, params)
}

// HandlerFromMux registers the handlers of si on r and returns r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	siw := &serverInterfaceWrapper{
		handler: si,
		errorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		},
	}

	r.Get("/health", si.GetHealth)
	r.Get("/info", si.GetInfo)
	r.Post("/evaluate", si.Evaluate)
	r.Get("/sessions", si.ListSessions)
	r.Post("/sessions", si.CreateSession)
	r.Get("/sessions/{id}", siw.withID(si.GetSession))
	r.Delete("/sessions/{id}", siw.withID(si.DeleteSession))
	r.Post("/sessions/{id}/keys", siw.withID(si.PressKeys))
	r.Post("/sessions/{id}/evaluate", siw.withID(si.EvaluateSession))
	r.Get("/sessions/{id}/history", siw.withID(si.GetHistory))
	r.Post("/sessions/{id}/history/{index}", siw.SelectHistory)
	r.Get("/sessions/{id}/events", siw.SubscribeEvents)

	return r
}
