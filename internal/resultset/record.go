package resultset

import (
	"fmt"
	"time"
)

// String returns the value under key as a string.
func (r Record) String(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", fmt.Errorf("column %q not in record", key)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", fmt.Errorf("column %q is null", key)
	default:
		return "", fmt.Errorf("column %q is %T, not string", key, v)
	}
}

// Time returns the value under key as a time.Time.
func (r Record) Time(key string) (time.Time, error) {
	v, ok := r[key]
	if !ok {
		return time.Time{}, fmt.Errorf("column %q not in record", key)
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("column %q is %T, not time.Time", key, v)
	}
	return t, nil
}
