package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	authmw "github.com/roomfit/roomfit/internal/auth/middleware"
	"github.com/roomfit/roomfit/internal/logging"
	"github.com/roomfit/roomfit/internal/match"
	"github.com/roomfit/roomfit/internal/metrics"
	"github.com/roomfit/roomfit/internal/questionnaire"
	syncx "github.com/roomfit/roomfit/internal/sync"
)

const maxCatalogBytes = 1 << 20

// GET /questionnaire/questions
func GetQuestionsHandler(store match.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.GetCatalog(r.Context())
		if err != nil {
			if errors.Is(err, match.ErrNotFound) {
				http.Error(w, "no question catalog", http.StatusServiceUnavailable)
				return
			}
			internalError(w, r, "load catalog", err)
			return
		}
		writeJSON(w, r, http.StatusOK, CatalogDoc{Questions: questionnaire.DefineAll(qs)})
	}
}

// PUT /questionnaire/questions  (YAML or JSON catalog)
func PutQuestionsHandler(store match.Store, events syncx.Appender, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := questionnaire.ParseCatalog(io.LimitReader(r.Body, maxCatalogBytes))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutCatalog(r.Context(), qs); err != nil {
			internalError(w, r, "save catalog", err)
			return
		}
		ids := make([]string, 0, len(qs))
		for _, q := range qs {
			ids = append(ids, q.QuestionID())
		}
		appendEvent(r, events, syncx.TypeCatalogReplaced, authmw.SubjectFromContext(r.Context()), ids)
		m.ObserveCatalogReplaced()
		writeJSON(w, r, http.StatusOK, CatalogDoc{Questions: questionnaire.DefineAll(qs)})
	}
}

// GET /questionnaire/answers  (resume seed)
func GetAnswersHandler(store match.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		as, err := store.GetAnswers(r.Context(), sub)
		if err != nil {
			if errors.Is(err, match.ErrNotFound) {
				http.Error(w, "no saved answers", http.StatusNotFound)
				return
			}
			internalError(w, r, "load answers", err)
			return
		}
		writeJSON(w, r, http.StatusOK, SubmitRequest{Answers: as})
	}
}

// POST /questionnaire/answers
func SubmitAnswersHandler(store match.Store, events syncx.Appender, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sub := authmw.SubjectFromContext(ctx)

		var req SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			m.ObserveSubmission(metrics.OutcomeRejected)
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		qs, err := store.GetCatalog(ctx)
		if err != nil {
			m.ObserveSubmission(metrics.OutcomeError)
			internalError(w, r, "load catalog", err)
			return
		}
		if err := questionnaire.Validate(qs, req.Answers); err != nil {
			m.ObserveSubmission(metrics.OutcomeRejected)
			var verr *questionnaire.ValidationError
			if errors.As(err, &verr) {
				http.Error(w, verr.QuestionID+": "+verr.Message, http.StatusUnprocessableEntity)
				return
			}
			internalError(w, r, "validate answers", err)
			return
		}
		// keep only answers to catalog questions
		answers := make(questionnaire.AnswerSet, len(qs))
		for _, q := range qs {
			answers[q.QuestionID()] = req.Answers[q.QuestionID()]
		}

		rc, err := store.SaveAnswers(ctx, sub, answers)
		if err != nil {
			m.ObserveSubmission(metrics.OutcomeError)
			internalError(w, r, "save answers", err)
			return
		}
		appendEvent(r, events, syncx.TypeAnswersSubmitted, sub, map[string]any{
			"submission_id": rc.ID,
			"answers":       answers,
		})
		m.ObserveSubmission(metrics.OutcomeAccepted)

		ms, err := match.MatchesFor(ctx, store, sub)
		if err != nil {
			internalError(w, r, "load matches", err)
			return
		}
		m.ObserveMatchesServed(len(ms))
		logging.FromContext(ctx).Info("answers submitted",
			zap.String("user_id", sub), zap.String("submission_id", rc.ID), zap.Int("matches", len(ms)))
		writeJSON(w, r, http.StatusCreated, SubmitResponse{Receipt: rc, Matches: ms})
	}
}

// appendEvent records an event. A failed append is logged, not surfaced.
func appendEvent(r *http.Request, events syncx.Appender, typ, key string, payload any) {
	if events == nil {
		return
	}
	log := logging.FromContext(r.Context())
	e, err := syncx.NewEvent(typ, key, payload)
	if err == nil {
		err = events.Append(r.Context(), e)
	}
	if err != nil {
		log.Warn("append event", zap.String("type", typ), zap.Error(err))
	}
}
