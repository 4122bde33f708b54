package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const defaultHeartbeat = 15 * time.Second

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's event renderer.
func NewServer(s *app.Service, log zerolog.Logger, heartbeat time.Duration) http.Handler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	h := &handlers{svc: s, tpl: loadTemplates(), heartbeat: heartbeat}
	log = log.With().Str("component", "web").Logger()
	s.SetRenderer(func(sess app.Session) []byte {
		b, err := h.renderBoard(sess, "")
		if err != nil {
			log.Error().Err(err).Str("game", sess.ID).Msg("render board event")
		}
		return b
	})

	r := chi.NewRouter()
	r.Use(hlog.NewHandler(log))
	r.Use(hlog.RemoteAddrHandler("ip"))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Get("/healthz", h.healthz)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Post("/jump", h.jump)
		r.Post("/sort", h.sort)
		r.Get("/events", h.events)
	})
	return r
}
