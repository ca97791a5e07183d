package tool

import (
	"math"
	"strconv"
	"strings"
)

// Several tools accept more than one spelling for the same semantic field
// (the model is free to pick either). Canonicalization happens here once,
// with a stable precedence: the first key listed wins when both are present.

func stringArg(args map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := args[key]
		if !ok {
			continue
		}
		if s, ok := raw.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// numberArg resolves a numeric field. JSON decoding yields float64 for all
// numbers, but models occasionally quote them, so numeric strings are
// accepted too. Non-finite values are rejected: ParseFloat accepts "NaN" and
// "Inf", and neither is a price or a quantity.
func numberArg(args map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := args[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			if finite(v) {
				return v, true
			}
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && finite(f) {
				return f, true
			}
		}
	}
	return 0, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func intArg(args map[string]any, keys ...string) (int, bool) {
	f, ok := numberArg(args, keys...)
	if !ok {
		return 0, false
	}
	return int(f), true
}
