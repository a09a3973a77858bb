package nl2sql

import (
	"context"
	"errors"
)

var (
	ErrNoResponse  = errors.New("model returned no response")
	ErrInvalidJSON = errors.New("model returned invalid JSON")
	ErrNoSQL       = errors.New("model did not return SQL")
)

type Request struct {
	Question   string
	SchemaText string
}

// Result carries the candidate SQL and the model's rationale. It has not
// been sanitized; callers must validate it before execution.
type Result struct {
	SQL   string `json:"sql"`
	Notes string `json:"notes"`
	Model string `json:"model"`
}

type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}
