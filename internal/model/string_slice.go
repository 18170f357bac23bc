package model

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strings"
)

// StringSlice is stored as a single comma separated column. Because of
// that no element may contain a comma.
type StringSlice []string

// Value implements the driver.Valuer interface.
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "", nil
	}

	for _, v := range s {
		if strings.Contains(v, ",") {
			return "", fmt.Errorf("unsafe string, %s", v)
		}
	}

	return strings.Join(s, ","), nil
}

// Scan implements the sql.Scanner interface.
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	str, ok := value.(string)
	if !ok {
		b, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan StringSlice, %v", value)
		}

		str = string(b)
	}

	if str == "" {
		*s = StringSlice{}
	} else {
		*s = strings.Split(str, ",")
	}

	return nil
}

// ParseTags turns the comma separated representation clients send into a
// tag set. Blank entries are dropped and duplicates collapsed, keeping the
// first occurrence's position.
func ParseTags(raw string) StringSlice {
	if strings.TrimSpace(raw) == "" {
		return StringSlice{}
	}

	return NormalizeTags(strings.Split(raw, ","))
}

// NormalizeTags trims, drops empties and dedupes tags
func NormalizeTags(tags []string) StringSlice {
	out := make(StringSlice, 0, len(tags))

	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || strings.Contains(t, ",") || slices.Contains(out, t) {
			continue
		}

		out = append(out, t)
	}

	return out
}

func (StringSlice) GormDataType() string {
	return "text"
}
