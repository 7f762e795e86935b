package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParseQueryUUIDs reads a repeatable or comma-separated uuid query parameter.
func ParseQueryUUIDs(r *http.Request, key string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").
					WithDetails(map[string]any{"field": key, "value": part})
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ParseQueryInts reads a repeatable or comma-separated integer query parameter.
func ParseQueryInts(r *http.Request, key string) ([]int, error) {
	var values []int
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			value, err := strconv.Atoi(part)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
					WithDetails(map[string]any{"field": key, "value": part})
			}
			values = append(values, value)
		}
	}
	return values, nil
}

// ParseQueryDecimal reads an optional decimal query parameter.
func ParseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a decimal number").
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	return &value, nil
}
