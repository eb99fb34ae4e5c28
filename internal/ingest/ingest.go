// Package ingest turns loosely formatted CSV exports into typed record fields.
//
// Parsing is strict: each row yields either a typed Row or a ParseError naming
// the offending column. Values are never guessed, except that an empty status
// column falls back to the kind's configured default status.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
)

// ParseError describes why one row could not be ingested.
type ParseError struct {
	Line   int    `json:"line"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: %s %q: %s", e.Line, e.Field, e.Value, e.Reason)
}

// Unwrap lets callers match row errors with errors.Is(err, apperrors.ErrValidation).
func (e *ParseError) Unwrap() error { return apperrors.ErrValidation }

// Row is a successfully parsed record, ready for Store.Create.
type Row[F any] struct {
	Status domain.Status
	Fields F
}

// Result is the outcome for one data line. Exactly one of Row and Err is set.
type Result[F any] struct {
	Line int
	Row  *Row[F]
	Err  *ParseError
}

// columns is one CSV row keyed by normalized header name.
type columns map[string]string

// rowParser converts a row of one kind. The returned error, if any, carries no line number yet.
type rowParser[F any] func(c columns, kc domain.KindCatalog) (Row[F], *ParseError)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("csv"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// read parses r as a CSV document with a header row.
// It fails as a whole only when the header is unusable or the CSV itself is malformed.
func read[F any](r io.Reader, kc domain.KindCatalog, required []string, parse rowParser[F]) ([]Result[F], error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.Validationf("csv is empty")
		}
		return nil, fmt.Errorf("%w: unreadable csv header: %w", apperrors.ErrValidation, err)
	}
	for i := range header {
		header[i] = normalizeHeader(header[i])
	}
	for _, want := range required {
		found := false
		for _, h := range header {
			if h == want {
				found = true
				break
			}
		}
		if !found {
			return nil, apperrors.Validationf("csv is missing required column %q", want)
		}
	}

	var results []Result[F]
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return results, fmt.Errorf("%w: malformed csv: %w", apperrors.ErrValidation, err)
		}
		line, _ := cr.FieldPos(0)

		if blank(record) {
			continue
		}
		if len(record) != len(header) {
			results = append(results, Result[F]{Line: line, Err: &ParseError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(header), len(record)),
			}})
			continue
		}

		c := make(columns, len(header))
		for i, h := range header {
			c[h] = strings.TrimSpace(record[i])
		}
		row, perr := parse(c, kc)
		if perr != nil {
			perr.Line = line
			results = append(results, Result[F]{Line: line, Err: perr})
			continue
		}
		results = append(results, Result[F]{Line: line, Row: &row})
	}
	return results, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// checkStruct runs validator tags and reports the first failure as a ParseError.
func checkStruct(row any) *ParseError {
	err := validate.Struct(row)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ParseError{Field: fe.Field(), Value: fmt.Sprint(fe.Value()), Reason: "failed " + fe.Tag() + " check"}
	}
	return &ParseError{Reason: err.Error()}
}

func parseStatus(raw string, kc domain.KindCatalog) (domain.Status, *ParseError) {
	if raw == "" {
		return kc.DefaultStatus, nil
	}
	s := domain.Status(strings.ToLower(raw))
	if !kc.Statuses.Contains(s) {
		return "", &ParseError{Field: "status", Value: raw, Reason: "unknown status"}
	}
	return s, nil
}

func parseCategory(field, raw string, kc domain.KindCatalog) (string, *ParseError) {
	c := strings.ToLower(raw)
	if !kc.HasCategory(c) {
		return "", &ParseError{Field: field, Value: raw, Reason: "unknown category"}
	}
	return c, nil
}
