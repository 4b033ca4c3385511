package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	apihttp "github.com/roomfit/roomfit/internal/api/http"
	authmw "github.com/roomfit/roomfit/internal/auth/middleware"
	"github.com/roomfit/roomfit/internal/compat"
	"github.com/roomfit/roomfit/internal/questionnaire"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Body)
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == code
}

type Config struct {
	BaseURL string
	Token   string // bearer access token; empty for anonymous calls
	Timeout time.Duration
}

// Client talks to the gateway. It implements questionnaire.QuestionSource,
// questionnaire.SubmissionSink and questionnaire.ResumeSource.
type Client struct {
	base string
	http *http.Client
}

func New(cfg Config) *Client {
	h := &http.Client{}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		h = oauth2.NewClient(context.Background(), ts)
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{base: strings.TrimSuffix(cfg.BaseURL, "/"), http: h}
}

var (
	_ questionnaire.QuestionSource = (*Client)(nil)
	_ questionnaire.SubmissionSink = (*Client)(nil)
	_ questionnaire.ResumeSource   = (*Client)(nil)
)

func (c *Client) Login(ctx context.Context, username, password string) (authmw.TokenResponse, error) {
	var out authmw.TokenResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, username, password string) (authmw.TokenResponse, error) {
	var out authmw.TokenResponse
	err := c.do(ctx, "register", http.MethodPost, "/auth/register", map[string]string{"username": username, "password": password}, &out)
	return out, err
}

func (c *Client) LoadQuestions(ctx context.Context) ([]questionnaire.Question, error) {
	var doc apihttp.CatalogDoc
	if err := c.do(ctx, "load questions", http.MethodGet, "/questionnaire/questions", nil, &doc); err != nil {
		return nil, err
	}
	return questionnaire.BuildAll(doc.Questions)
}

func (c *Client) SubmitAnswers(ctx context.Context, answers questionnaire.AnswerSet) (questionnaire.Receipt, error) {
	var out apihttp.SubmitResponse
	if err := c.do(ctx, "submit answers", http.MethodPost, "/questionnaire/answers", apihttp.SubmitRequest{Answers: answers}, &out); err != nil {
		return questionnaire.Receipt{}, err
	}
	return out.Receipt, nil
}

// LoadAnswers returns the saved answers, or an empty set when there are none.
func (c *Client) LoadAnswers(ctx context.Context) (questionnaire.AnswerSet, error) {
	var out apihttp.SubmitRequest
	err := c.do(ctx, "load answers", http.MethodGet, "/questionnaire/answers", nil, &out)
	if IsStatus(err, http.StatusNotFound) {
		return questionnaire.AnswerSet{}, nil
	}
	if err != nil {
		return nil, err
	}
	if out.Answers == nil {
		out.Answers = questionnaire.AnswerSet{}
	}
	return out.Answers, nil
}

func (c *Client) Matches(ctx context.Context) ([]compat.Match, error) {
	var out apihttp.MatchesResponse
	if err := c.do(ctx, "list matches", http.MethodGet, "/matches", nil, &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &StatusError{Op: op, Status: res.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}
