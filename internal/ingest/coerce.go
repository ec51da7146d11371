// Package ingest maps the heterogeneous payload shapes returned by the catalog
// and cart backends onto the canonical model types. Pricing and variant
// resolution only ever see the normalized shapes.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type object = map[string]any

func decodeObject(data []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	obj, ok := raw.(object)
	if !ok {
		return nil, fmt.Errorf("payload must be a JSON object")
	}
	return obj, nil
}

// lookup returns the first non-null value among keys.
func lookup(obj object, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// unwrap descends into a "data" envelope when the backend used one.
func unwrap(obj object, keys ...string) object {
	for _, k := range keys {
		if inner, ok := obj[k].(object); ok {
			return inner
		}
	}
	return obj
}

// parseNumber reports the numeric value of v and whether v was numeric at all.
func parseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// money returns the first numeric value among keys, or zero. Negative amounts are zero.
func money(obj object, keys ...string) float64 {
	v, ok := lookup(obj, keys...)
	if !ok {
		return 0
	}
	f, ok := parseNumber(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// optionalMoney is like money but distinguishes an absent or non-numeric field.
func optionalMoney(obj object, keys ...string) *float64 {
	v, ok := lookup(obj, keys...)
	if !ok {
		return nil
	}
	f, ok := parseNumber(v)
	if !ok {
		return nil
	}
	if f < 0 {
		f = 0
	}
	return &f
}

// maxCount caps quantities and stock levels so conversion to int cannot overflow.
const maxCount = math.MaxInt32

// count returns an integer field, floored at floor and capped at maxCount.
func count(obj object, floor int, keys ...string) int {
	v, ok := lookup(obj, keys...)
	if !ok {
		return floor
	}
	f, ok := parseNumber(v)
	if !ok || f < float64(floor) {
		return floor
	}
	if f > maxCount {
		return maxCount
	}
	return int(f)
}

// text returns the first value among keys rendered as a string.
func text(obj object, keys ...string) string {
	v, ok := lookup(obj, keys...)
	if !ok {
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
