package http

import (
	"github.com/roomfit/roomfit/internal/compat"
	"github.com/roomfit/roomfit/internal/questionnaire"
)

// Wire shapes shared by the gateway handlers and the API client.

type CatalogDoc struct {
	Questions []questionnaire.Definition `json:"questions"`
}

type SubmitRequest struct {
	Answers questionnaire.AnswerSet `json:"answers"`
}

type SubmitResponse struct {
	Receipt questionnaire.Receipt `json:"receipt"`
	Matches []compat.Match        `json:"matches"`
}

type MatchesResponse struct {
	Matches []compat.Match `json:"matches,omitempty"`
	Cards   []compat.Card  `json:"cards,omitempty"`
}
