package models

import "time"

// Scan helpers folding the store's wire types (and the differences between
// the postgres and sqlite drivers) into model fields. Timestamps travel as
// RFC 3339 UTC text.

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	default:
		return ""
	}
}

func asBool(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case int64:
		return value != 0
	default:
		return false
	}
}

func asFloat(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	default:
		return 0
	}
}

func asIntPtr(v any) *int64 {
	switch value := v.(type) {
	case int64:
		return &value
	case float64:
		n := int64(value)
		return &n
	default:
		return nil
	}
}

func asTime(v any) time.Time {
	switch value := v.(type) {
	case time.Time:
		return value.UTC()
	case string:
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}
		}
		return t.UTC()
	default:
		return time.Time{}
	}
}

func asTimePtr(v any) *time.Time {
	if v == nil {
		return nil
	}
	t := asTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeValue(t time.Time) any {
	return t.UTC().Format(time.RFC3339)
}

func timePtrValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeValue(*t)
}

func intPtrValue(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}
