package chi

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"
)

// bindResultsParams binds GET /results query parameters.
func bindResultsParams(r *http.Request) (ResultsParams, error) {
	var params ResultsParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "min_score", query, &params.MinScore); err != nil {
		return ResultsParams{}, fmt.Errorf("invalid format for parameter min_score: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		return ResultsParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	if params.Limit != nil && *params.Limit < 0 {
		return ResultsParams{}, fmt.Errorf("limit must be non-negative, got %d", *params.Limit)
	}
	return params, nil
}
