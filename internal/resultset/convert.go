package resultset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayouts are tried in order for textual timestamps. The first two are
// what modernc.org/sqlite writes for time.Time parameters.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func convert(kind Kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case KindTimestamp:
		return toTime(v)
	case KindUUID:
		return toUUIDString(v)
	case KindText:
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
		return v, nil
	case KindInteger:
		return toInt64(v)
	case KindBool:
		return toBool(v)
	default:
		if b, ok := v.([]byte); ok {
			// drivers reuse scan buffers
			cp := make([]byte, len(b))
			copy(cp, b)
			return cp, nil
		}
		return v, nil
	}
}

// ParseTime parses the textual timestamp forms produced by the supported
// drivers.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("nil *time.Time")
		}
		return *t, nil
	case string:
		return ParseTime(t)
	case []byte:
		return ParseTime(string(t))
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case float64:
		sec := int64(t)
		return time.Unix(sec, int64((t-float64(sec))*1e9)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to timestamp", v)
	}
}

func toUUIDString(v any) (string, error) {
	switch u := v.(type) {
	case string:
		id, err := uuid.Parse(u)
		if err != nil {
			// keep text ids as stored
			return u, nil
		}
		return id.String(), nil
	case [16]byte:
		return uuid.UUID(u).String(), nil
	case uuid.UUID:
		return u.String(), nil
	case []byte:
		if len(u) == 16 {
			id, err := uuid.FromBytes(u)
			if err != nil {
				return "", err
			}
			return id.String(), nil
		}
		return toUUIDString(string(u))
	case fmt.Stringer:
		return u.String(), nil
	default:
		return "", fmt.Errorf("cannot convert %T to uuid", v)
	}
}

func toInt64(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return v, nil
	}
}

func toBool(v any) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	default:
		return v, nil
	}
}
