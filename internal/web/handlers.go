package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/domain"
	"github.com/rs/zerolog/hlog"
)

const gameCookie = "game_id"

type handlers struct {
	svc       *app.Service
	tpl       *templates
	heartbeat time.Duration
}

func (h *handlers) renderBoard(sess app.Session, errMsg string) ([]byte, error) {
	return renderTemplate(h.tpl.board, "", boardData{ID: sess.ID, View: sess.State.View(), Error: errMsg})
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(gameCookie); err == nil && c.Value != "" {
		if _, ok := h.svc.Get(c.Value); ok {
			http.Redirect(w, r, "/game/"+c.Value, http.StatusSeeOther)
			return
		}
	}
	body, err := renderTemplate(h.tpl.index, "base", nil)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render index")
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.CreateGame()
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create game")
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	rememberGame(w, sess.ID)
	http.Redirect(w, r, "/game/"+sess.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	rememberGame(w, sess.ID)

	data := boardData{ID: sess.ID, View: sess.State.View()}
	body, err := renderTemplate(h.tpl.game, "base", data)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render game")
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// formInt reads an integer form field.
func formInt(r *http.Request, key string) (int, error) {
	if err := r.ParseForm(); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(r.Form.Get(key)))
}

// respond writes the board fragment after an action. Rejected moves are
// silent: the unchanged board comes back without a message.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, sess *app.Session, err error) {
	if errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if sess == nil {
		if s, ok := h.svc.Get(id); ok {
			sess = s
		}
	}
	if sess == nil {
		http.NotFound(w, r)
		return
	}

	status := http.StatusOK
	var errMsg string
	if err != nil {
		status = http.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrOutOfBounds):
			errMsg = "Out of bounds"
		case errors.Is(err, domain.ErrInvalidStep):
			errMsg = "No such move"
		case errors.Is(err, domain.ErrInvalidOrder):
			errMsg = "Unknown sort order"
		default:
			errMsg = "Invalid request"
		}
		hlog.FromRequest(r).Debug().Err(err).Str("game", id).Msg("bad request")
	}
	body, rerr := h.renderBoard(*sess, errMsg)
	if rerr != nil {
		hlog.FromRequest(r).Error().Err(rerr).Str("game", id).Msg("render board")
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, body)
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cell, err := formInt(r, "cell")
	if err != nil {
		h.respond(w, r, id, nil, fmt.Errorf("cell: %w", err))
		return
	}
	sess, _, err := h.svc.Play(id, cell)
	h.respond(w, r, id, sess, err)
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	step, err := formInt(r, "step")
	if err != nil {
		h.respond(w, r, id, nil, fmt.Errorf("step: %w", err))
		return
	}
	sess, err := h.svc.JumpTo(id, step)
	h.respond(w, r, id, sess, err)
}

func (h *handlers) sort(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	order, err := domain.ParseSortOrder(r.Form.Get("order"))
	if err != nil {
		h.respond(w, r, id, nil, err)
		return
	}
	sess, err := h.svc.SetSortOrder(id, order)
	h.respond(w, r, id, sess, err)
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// writeEvent emits one SSE event; multi-line payloads get one data field per
// line.
func writeEvent(w io.Writer, ev app.Event) {
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Name)
	for _, line := range strings.Split(string(ev.Data), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		}
	}
}

// rememberGame points the visitor's cookie at their current game.
func rememberGame(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     gameCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
