// Package llm reviews fiscal codes (CFOP, CST and NCM) through an
// OpenAI-compatible chat API, with an optional on-disk cache.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rezonia/fiscal-validator/internal/model"
)

// CodeField names one reviewed code
type CodeField string

const (
	FieldCFOP      CodeField = "cfop"
	FieldCSTICMS   CodeField = "cst_icms"
	FieldCSTPIS    CodeField = "cst_pis"
	FieldCSTCOFINS CodeField = "cst_cofins"
	FieldNCM       CodeField = "ncm"
)

// CodeFields lists every reviewed code in response order
var CodeFields = []CodeField{FieldCFOP, FieldCSTICMS, FieldCSTPIS, FieldCSTCOFINS, FieldNCM}

// ErrEmptyRequest is returned when no code was given
var ErrEmptyRequest = errors.New("nenhum dado fiscal fornecido")

// CodeReviewRequest holds the codes to review
type CodeReviewRequest struct {
	CFOP      string `json:"cfop"`
	CSTICMS   string `json:"cst_icms"`
	CSTPIS    string `json:"cst_pis"`
	CSTCOFINS string `json:"cst_cofins"`
	NCM       string `json:"ncm"`
}

// IsEmpty reports whether no code is set
func (r CodeReviewRequest) IsEmpty() bool {
	return r.CFOP == "" && r.CSTICMS == "" && r.CSTPIS == "" && r.CSTCOFINS == "" && r.NCM == ""
}

// RequestFromDocument collects the codes of a parsed document: its primary
// CFOP, the first item NCM, and the ICMS (CST or CSOSN), PIS and COFINS
// situation codes of structured tax entries.
func RequestFromDocument(doc *model.FiscalDocument) CodeReviewRequest {
	var req CodeReviewRequest
	if doc == nil {
		return req
	}
	req.CFOP, _ = doc.PrimaryCFOP()
	for _, item := range doc.Itens {
		if !item.NCM.IsEmpty() {
			req.NCM = item.NCM.String()
			break
		}
	}
	if doc.Impostos != nil {
		if icms, ok := doc.Impostos.ICMS.(model.StructuredTax); ok {
			req.CSTICMS = icms.CST.String()
			if !icms.HasCST && icms.HasCSOSN {
				req.CSTICMS = icms.CSOSN.String()
			}
		}
		req.CSTPIS = situationCode(doc.Impostos.PIS)
		req.CSTCOFINS = situationCode(doc.Impostos.COFINS)
	}
	return req
}

func situationCode(entry model.TaxEntry) string {
	if s, ok := entry.(model.StructuredTax); ok && s.HasCST {
		return s.CST.String()
	}
	return ""
}

// CodeVerdict is the review outcome for one code
type CodeVerdict struct {
	IsValid        bool    `json:"is_valid"`
	NormalizedCode string  `json:"normalized_code"`
	Description    string  `json:"description"`
	Confidence     float64 `json:"confidence"`
}

// CodeReview maps every reviewed code to its verdict
type CodeReview map[CodeField]CodeVerdict

// ReviewError wraps failures of a review call
type ReviewError struct {
	Op  string
	Err error
}

func (e *ReviewError) Error() string {
	return fmt.Sprintf("code review %s: %v", e.Op, e.Err)
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

// NewReviewError creates a new review error
func NewReviewError(op string, err error) *ReviewError {
	return &ReviewError{Op: op, Err: err}
}

// Reviewer validates fiscal codes with an LLM
type Reviewer struct {
	client  ChatClient
	model   string
	cache   *Cache
	onCache func(hit bool)
}

// ReviewerOption configures the reviewer
type ReviewerOption func(*Reviewer)

// WithModel sets the model to use
func WithModel(model string) ReviewerOption {
	return func(r *Reviewer) {
		r.model = model
	}
}

// WithCache enables the response cache
func WithCache(c *Cache) ReviewerOption {
	return func(r *Reviewer) {
		r.cache = c
	}
}

// WithCacheObserver sets a callback invoked on every cache lookup
func WithCacheObserver(fn func(hit bool)) ReviewerOption {
	return func(r *Reviewer) {
		r.onCache = fn
	}
}

// NewReviewer creates a new code reviewer
func NewReviewer(client ChatClient, opts ...ReviewerOption) *Reviewer {
	r := &Reviewer{
		client: client,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Review asks the model to validate and normalize every code of req.
// A response that cannot be parsed yields a review marking all codes
// invalid; transport failures are returned as *ReviewError.
func (r *Reviewer) Review(ctx context.Context, req CodeReviewRequest) (CodeReview, error) {
	if req.IsEmpty() {
		return nil, NewReviewError("validate", ErrEmptyRequest)
	}

	if r.cache != nil {
		review, ok := r.cache.Get(req)
		if r.onCache != nil {
			r.onCache(ok)
		}
		if ok {
			return review, nil
		}
	}

	prompt := fmt.Sprintf(UserPromptCodeReview,
		orDash(req.CFOP), orDash(req.CSTICMS), orDash(req.CSTPIS), orDash(req.CSTCOFINS), orDash(req.NCM))

	response, err := r.client.ChatText(ctx, r.model, SystemPromptCodeReviewer, prompt)
	if err != nil {
		return nil, NewReviewError("chat", err)
	}

	review, err := ParseReview(response)
	if err != nil {
		return FailedReview(err), nil
	}

	if r.cache != nil {
		// a cache write failure only costs a future call
		_ = r.cache.Set(req, review)
	}
	return review, nil
}

func orDash(code string) string {
	if code == "" {
		return "-"
	}
	return code
}

// ParseReview decodes a model response. The verdicts may sit at the top
// level or under a "validation" key; codes absent from the response are
// filled as invalid with zero confidence.
func ParseReview(response string) (CodeReview, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(ExtractJSON(response)), &top); err != nil {
		return nil, fmt.Errorf("JSON inválido: %w", err)
	}
	if nested, ok := top["validation"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil {
			top = inner
		}
	}

	review := make(CodeReview, len(CodeFields))
	for _, field := range CodeFields {
		raw, ok := top[string(field)]
		if !ok {
			review[field] = missingVerdict(field)
			continue
		}
		var verdict CodeVerdict
		if err := json.Unmarshal(raw, &verdict); err != nil {
			review[field] = missingVerdict(field)
			continue
		}
		review[field] = verdict
	}
	return review, nil
}

func missingVerdict(field CodeField) CodeVerdict {
	return CodeVerdict{
		Description: fmt.Sprintf("Campo %s não encontrado na resposta", field),
	}
}

// FailedReview marks every code invalid, carrying the error text
func FailedReview(err error) CodeReview {
	review := make(CodeReview, len(CodeFields))
	for _, field := range CodeFields {
		review[field] = CodeVerdict{Description: fmt.Sprintf("Erro: %v", err)}
	}
	return review
}
