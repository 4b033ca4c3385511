package match

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roomfit/roomfit/internal/compat"
	"github.com/roomfit/roomfit/internal/questionnaire"
)

// SQLStore keeps JSON documents in the tables created by db.Open.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) SaveAnswers(ctx context.Context, userID string, answers questionnaire.AnswerSet) (questionnaire.Receipt, error) {
	aj, err := json.Marshal(answers)
	if err != nil {
		return questionnaire.Receipt{}, err
	}
	rc := newReceipt()
	_, err = s.db.ExecContext(ctx, `INSERT INTO answer_sets (user_id,submission_id,answers_json,submitted_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE SET submission_id=EXCLUDED.submission_id, answers_json=EXCLUDED.answers_json, submitted_at=EXCLUDED.submitted_at`,
		userID, rc.ID, string(aj), rc.SubmittedAt.Unix())
	if err != nil {
		return questionnaire.Receipt{}, fmt.Errorf("save answers: %w", err)
	}
	return rc, nil
}

func (s *SQLStore) GetAnswers(ctx context.Context, userID string) (questionnaire.AnswerSet, error) {
	var aj string
	err := s.db.QueryRowContext(ctx, `SELECT answers_json FROM answer_sets WHERE user_id=$1`, userID).Scan(&aj)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var out questionnaire.AnswerSet
	if err := json.Unmarshal([]byte(aj), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) PutMatches(ctx context.Context, userID string, ms []compat.Match) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for i, m := range ms {
		mj, err := json.Marshal(m)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO matches (user_id,candidate_id,position,match_json) VALUES ($1,$2,$3,$4)`,
			userID, m.UserID, i, string(mj)); err != nil {
			return fmt.Errorf("put match %s: %w", m.UserID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListMatches(ctx context.Context, userID string) ([]compat.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_json FROM matches WHERE user_id=$1 ORDER BY position`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []compat.Match
	for rows.Next() {
		var mj string
		if err := rows.Scan(&mj); err != nil {
			return nil, err
		}
		var m compat.Match
		if err := json.Unmarshal([]byte(mj), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutCatalog(ctx context.Context, qs []questionnaire.Question) error {
	qj, err := json.Marshal(questionnaire.DefineAll(qs))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO questionnaire_catalog (id,questions_json,updated_at)
		VALUES (1,$1,$2)
		ON CONFLICT (id) DO UPDATE SET questions_json=EXCLUDED.questions_json, updated_at=EXCLUDED.updated_at`,
		string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetCatalog(ctx context.Context) ([]questionnaire.Question, error) {
	var qj string
	err := s.db.QueryRowContext(ctx, `SELECT questions_json FROM questionnaire_catalog WHERE id=1`).Scan(&qj)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var defs []questionnaire.Definition
	if err := json.Unmarshal([]byte(qj), &defs); err != nil {
		return nil, err
	}
	return questionnaire.BuildAll(defs)
}
