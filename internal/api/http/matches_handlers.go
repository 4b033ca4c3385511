package http

import (
	"context"
	"net/http"
	"strconv"

	authmw "github.com/roomfit/roomfit/internal/auth/middleware"
	"github.com/roomfit/roomfit/internal/compat"
	"github.com/roomfit/roomfit/internal/match"
	"github.com/roomfit/roomfit/internal/metrics"
	syncx "github.com/roomfit/roomfit/internal/sync"
)

// GET /matches[?view=card]
func ListMatchesHandler(store match.Store, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, err := match.MatchesFor(r.Context(), store, authmw.SubjectFromContext(r.Context()))
		if err != nil {
			internalError(w, r, "load matches", err)
			return
		}
		m.ObserveMatchesServed(len(ms))
		switch r.URL.Query().Get("view") {
		case "", "raw":
			if ms == nil {
				ms = []compat.Match{}
			}
			writeJSON(w, r, http.StatusOK, MatchesResponse{Matches: ms})
		case "card":
			writeJSON(w, r, http.StatusOK, MatchesResponse{Cards: compat.PresentAll(ms)})
		default:
			http.Error(w, "view must be raw or card", http.StatusBadRequest)
		}
	}
}

// EventLister reads the event log.
type EventLister interface {
	Since(ctx context.Context, after int64, limit int) ([]syncx.Event, error)
}

type eventOut struct {
	Seq       int64  `json:"seq"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	Data      string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

// GET /admin/events?after=N&limit=M
func ListEventsHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		after, _ := strconv.ParseInt(q.Get("after"), 10, 64)
		limit, _ := strconv.Atoi(q.Get("limit"))
		if limit <= 0 || limit > 500 {
			limit = 100
		}
		es, err := events.Since(r.Context(), after, limit)
		if err != nil {
			internalError(w, r, "list events", err)
			return
		}
		out := make([]eventOut, 0, len(es))
		for _, e := range es {
			out = append(out, eventOut{Seq: e.Seq, Type: e.Type, Key: e.Key, Data: e.DataJSON, CreatedAt: e.CreatedAt})
		}
		writeJSON(w, r, http.StatusOK, out)
	}
}
