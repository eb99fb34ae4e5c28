package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/dto"
	"github.com/shopspring/decimal"
)

// resolveStatus maps an optional request status onto the catalog. Empty means the default status.
func resolveStatus(raw string, kc domain.KindCatalog) (domain.Status, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return kc.DefaultStatus, nil
	}
	s := domain.Status(strings.ToLower(raw))
	if !kc.Statuses.Contains(s) {
		return "", apperrors.Validationf("unknown status %q, expected one of %s", raw, strings.Join(kc.Statuses.Strings(), ", "))
	}
	return s, nil
}

func optionalStatus(raw *string, kc domain.KindCatalog) (*domain.Status, error) {
	if raw == nil {
		return nil, nil
	}
	if strings.TrimSpace(*raw) == "" {
		return nil, apperrors.Validationf("status must not be empty")
	}
	s, err := resolveStatus(*raw, kc)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func checkCategory(field, raw string, kc domain.KindCatalog) (string, error) {
	c := strings.ToLower(strings.TrimSpace(raw))
	if !kc.HasCategory(c) {
		return "", apperrors.Validationf("unknown %s %q, expected one of %s", field, raw, strings.Join(kc.Categories, ", "))
	}
	return c, nil
}

func optionalCategory(field string, raw *string, kc domain.KindCatalog) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	c, err := checkCategory(field, *raw, kc)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperrors.Validationf("%s must be a date in YYYY-MM-DD form, got %q", field, raw)
	}
	return t, nil
}

func optionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalAmount(field string, d *decimal.Decimal) error {
	if d != nil && d.IsNegative() {
		return apperrors.Validationf("%s must not be negative", field)
	}
	return nil
}

// invalid wraps a field-level invariant failure as a validation error.
func invalid(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
