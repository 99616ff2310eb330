// Package api exposes the widget over HTTP: the host pushes entity
// snapshots and forecast arrays in, and reads the composed render output
// (the view-model contract) back out. Popup navigation and configuration
// changes arrive through the same surface.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meteocard/internal/hub"
	"meteocard/internal/types"
	"meteocard/internal/widget"
)

// Server wires the widget and hub behind a chi router.
type Server struct {
	widget *widget.Widget
	hub    *hub.Hub
	logger *slog.Logger
	router *chi.Mux
}

// NewServer creates the HTTP surface for a widget/hub pair and mounts all
// routes.
func NewServer(w *widget.Widget, h *hub.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		widget: w,
		hub:    h,
		logger: logger,
		router: chi.NewRouter(),
	}
	s.mountRoutes()
	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) mountRoutes() {
	s.router.Use(Recoverer(s.logger))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(RequestLogger(s.logger))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/card/render", s.handleRender)
		r.Put("/card/config", s.handleSetConfig)
		r.Post("/card/popup/{view}", s.handleOpenPopup)
		r.Delete("/card/popup", s.handleClosePopup)

		r.Post("/states", s.handlePushStates)
		r.Post("/forecasts/{kind}", s.handlePushForecast)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender returns the current composed output: error placeholder, or
// summary plus optional popup overlay.
func (s *Server) handleRender(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, APIResponse{Data: s.widget.Render()})
}

// handleSetConfig replaces the card configuration. The payload is decoded
// on top of the stub defaults so omitted toggles and counts keep their
// documented values. An invalid configuration is refused and the previous
// one stays active.
func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := types.DefaultCardConfig()
	if err := DecodeJSON(r, &cfg); err != nil {
		Error(w, r, err)
		return
	}
	if err := s.widget.SetConfig(cfg); err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, APIResponse{Data: cfg})
}

func (s *Server) handleOpenPopup(w http.ResponseWriter, r *http.Request) {
	view := types.PopupView(chi.URLParam(r, "view"))
	if err := s.widget.OpenPopup(view); err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, APIResponse{Data: s.widget.Render()})
}

func (s *Server) handleClosePopup(w http.ResponseWriter, _ *http.Request) {
	s.widget.ClosePopup()
	JSON(w, http.StatusAccepted, APIResponse{Data: s.widget.Render()})
}

// statesPayload is the push format for entity snapshots.
type statesPayload struct {
	States []types.EntityState `json:"states"`
}

// handlePushStates ingests a batch of entity snapshots and signals the
// widget that the source changed, which also retries any failed forecast
// subscription.
func (s *Server) handlePushStates(w http.ResponseWriter, r *http.Request) {
	var payload statesPayload
	if err := DecodeJSON(r, &payload); err != nil {
		Error(w, r, err)
		return
	}
	if len(payload.States) == 0 {
		Error(w, r, types.NewAppError(types.ErrCodeValidationBadPayload,
			"push carries no states", nil))
		return
	}
	accepted := s.hub.PushStates(payload.States)
	s.widget.SourceUpdated()
	JSON(w, http.StatusAccepted, APIResponse{Data: map[string]int{"accepted": accepted}})
}

// forecastPayload is the push format for forecast arrays.
type forecastPayload struct {
	EntityID string              `json:"entity_id"`
	Forecast []types.RawForecast `json:"forecast"`
}

// handlePushForecast delivers a forecast array to the subscriptions of
// the given kind. A push without a forecast is valid and clears the
// subscribed rows.
func (s *Server) handlePushForecast(w http.ResponseWriter, r *http.Request) {
	kind := types.ForecastKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		Error(w, r, types.NewAppError(types.ErrCodeValidationInvalidKind,
			"unknown forecast kind: "+string(kind), nil))
		return
	}
	var payload forecastPayload
	if err := DecodeJSON(r, &payload); err != nil {
		Error(w, r, err)
		return
	}
	if payload.EntityID == "" {
		Error(w, r, types.NewAppError(types.ErrCodeValidationBadPayload,
			"forecast push requires an entity id", nil))
		return
	}
	delivered := s.hub.PushForecast(payload.EntityID, kind, payload.Forecast)
	JSON(w, http.StatusAccepted, APIResponse{Data: map[string]int{"delivered": delivered}})
}
