package server

import (
	"github.com/rezonia/fiscal-validator/internal/llm"
	"github.com/rezonia/fiscal-validator/internal/processor"
)

// BatchResponse is the response for the process endpoint
type BatchResponse struct {
	processor.Summary
	Format  string              `json:"format"`
	Results []*processor.Result `json:"results"`
}

// CNPJResponse is the response for the CNPJ lookup endpoint
type CNPJResponse struct {
	Input      string `json:"input"`
	Digits     string `json:"digits"`
	Formatted  string `json:"formatted,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Valid      bool   `json:"valid"`
	Overridden bool   `json:"overridden,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// CFOPResponse is the response for the CFOP lookup endpoint
type CFOPResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tipo        string `json:"tipo"`
}

// ReviewResponse is the response for the code review endpoint
type ReviewResponse struct {
	Request llm.CodeReviewRequest `json:"request"`
	Review  llm.CodeReview        `json:"review"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
