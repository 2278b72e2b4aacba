package output

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/itchyny/gojq"
)

// applyFilters runs the context-carried --query (jq) or --jsonpath
// filter over data. --query wins when both are present; callers validate
// that only one is set.
func applyFilters(ctx context.Context, data interface{}) (interface{}, error) {
	if query := QueryFromContext(ctx); query != "" {
		results, err := runQuery(query, data)
		if err != nil {
			return nil, err
		}
		if len(results) == 1 {
			return results[0], nil
		}
		return results, nil
	}

	if path := JSONPathFromContext(ctx); path != "" {
		normalized, err := normalizeToInterface(data)
		if err != nil {
			return nil, fmt.Errorf("jsonpath error: %w", err)
		}
		value, err := jsonpath.Get(path, normalized)
		if err != nil {
			return nil, fmt.Errorf("invalid --jsonpath value: %w", err)
		}
		return value, nil
	}

	return data, nil
}

// runQuery normalizes data to map/slice form, runs a gojq query, and
// returns the results.
func runQuery(query string, data interface{}) ([]interface{}, error) {
	normalized, err := normalizeToInterface(data)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}

	var results []interface{}
	iter := code.Run(normalized)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if queryErr, isErr := v.(error); isErr {
			return nil, fmt.Errorf("query error: %v", queryErr)
		}
		results = append(results, v)
	}

	return results, nil
}

// normalizeToInterface round-trips data through JSON so gojq and
// jsonpath see only maps, slices, and primitives.
func normalizeToInterface(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}
