package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/tictactoe-history/internal/domain"
	"github.com/rs/zerolog"
)

// Errors exposed by the service layer.
var ErrNotFound = errors.New("game not found")

// Session is the in-memory state tracked per game.
type Session struct {
	ID      string
	State   domain.State
	Created time.Time
	Updated time.Time
}

// Event names pushed to subscribers.
const (
	EventBoard = "board"
	EventDraw  = "draw"
)

// Event is a rendered update for a session's subscribers.
type Event struct {
	Name string
	Data []byte
}

type subscriber struct {
	ch        chan Event
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages sessions and subscribers.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session
	subs     map[string]map[*subscriber]struct{}
	render   func(Session) []byte
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a service with a renderer that produces empty payloads.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		sessions: make(map[string]*Session),
		subs:     make(map[string]map[*subscriber]struct{}),
		render:   func(Session) []byte { return nil },
		log:      log.With().Str("component", "app").Logger(),
		now:      time.Now,
	}
}

// SetRenderer replaces the function that renders board events.
func (s *Service) SetRenderer(renderer func(Session) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(Session) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new session.
func (s *Service) CreateGame() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("could not generate game id: %w", err)
	}
	now := s.now()
	sess := &Session{ID: id.String(), State: domain.New(), Created: now, Updated: now}
	s.sessions[sess.ID] = sess
	s.log.Info().Str("game", sess.ID).Msg("game created")
	cp := *sess
	return &cp, nil
}

// Get returns a copy of the session if present.
func (s *Service) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	cp := *sess
	return &cp, true
}

// Play places the next mark at cell (0..8).
func (s *Service) Play(id string, cell int) (*Session, domain.Result, error) {
	return s.dispatch(id, domain.PlayAction{Cell: cell})
}

// JumpTo displays an earlier or later step of the history.
func (s *Service) JumpTo(id string, step int) (*Session, error) {
	sess, _, err := s.dispatch(id, domain.JumpAction{Step: step})
	return sess, err
}

// SetSortOrder changes the move list order.
func (s *Service) SetSortOrder(id string, order domain.SortOrder) (*Session, error) {
	sess, _, err := s.dispatch(id, domain.SortAction{Order: order})
	return sess, err
}

// dispatch applies an action and, when it changed anything, broadcasts the
// new board. A draw event goes out only when the displayed outcome becomes a
// draw.
func (s *Service) dispatch(id string, action domain.Action) (*Session, domain.Result, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.RejectedInvalid, ErrNotFound
	}

	prev := sess.State.Current().Outcome
	next, res, err := domain.Reduce(sess.State, action)
	if err != nil {
		cp := *sess
		s.mu.Unlock()
		s.log.Debug().Err(err).Str("game", id).Msg("action rejected")
		return &cp, res, err
	}
	if res != domain.Applied {
		cp := *sess
		s.mu.Unlock()
		s.log.Debug().Str("game", id).Stringer("result", res).Msg("move ignored")
		return &cp, res, nil
	}

	sess.State = next
	sess.Updated = s.now()
	cp := *sess

	events := []Event{{Name: EventBoard, Data: s.render(cp)}}
	out := next.Current().Outcome
	if out.Status == domain.Draw && prev.Status != domain.Draw {
		s.log.Info().Str("game", id).Int("step", next.Step()).Msg("draw reached")
		events = append(events, Event{Name: EventDraw, Data: []byte("Draw!")})
	}
	if out.Status == domain.Win && prev.Status != domain.Win {
		s.log.Info().Str("game", id).Stringer("winner", out.Winner).Msg("game won")
	}
	s.broadcastLocked(id, events)
	s.mu.Unlock()
	return &cp, res, nil
}

// broadcastLocked fans events out without blocking; subscribers that cannot
// keep up are dropped.
func (s *Service) broadcastLocked(id string, events []Event) {
	set := s.subs[id]
	dropped := 0
	for sub := range set {
		for _, ev := range events {
			select {
			case sub.ch <- ev:
				continue
			default:
			}
			sub.close()
			delete(set, sub)
			dropped++
			break
		}
	}
	if dropped > 0 {
		s.log.Debug().Str("game", id).Int("dropped", dropped).Msg("dropped slow subscribers")
	}
}

// Subscribe registers a subscriber for a session. It returns a channel and an
// unsubscribe func; the subscription also ends when ctx is done.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan Event, 4)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(s.subs, id)
				}
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

// Prune removes sessions not updated within ttl and closes their subscribers.
// It returns how many sessions were removed.
func (s *Service) Prune(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	n := 0
	for id, sess := range s.sessions {
		if !sess.Updated.Before(cutoff) {
			continue
		}
		for sub := range s.subs[id] {
			sub.close()
		}
		delete(s.subs, id)
		delete(s.sessions, id)
		n++
	}
	if n > 0 {
		s.log.Info().Int("pruned", n).Int("remaining", len(s.sessions)).Msg("pruned idle games")
	}
	return n
}

// RunJanitor prunes idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Prune(ttl)
		}
	}
}
