package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// MaxVariantOptions is the maximum number of options a variant may carry
const MaxVariantOptions = 10

// Option is a single named attribute of a variant (e.g. Color=Red)
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OptionList is the flexible list-of-pairs representation of variant
// attributes, stored as JSONB
type OptionList []Option

// Validate enforces the structural constraints on an options list:
// at most MaxVariantOptions entries, option names case-insensitively
// unique within the list.
func (l OptionList) Validate() error {
	if len(l) > MaxVariantOptions {
		return fmt.Errorf("too many options: %d (max %d)", len(l), MaxVariantOptions)
	}
	seen := make(map[string]bool, len(l))
	for _, opt := range l {
		key := strings.ToLower(opt.Name)
		if seen[key] {
			return fmt.Errorf("duplicate option names: %q", opt.Name)
		}
		seen[key] = true
	}
	return nil
}

// Value implements driver.Valuer. A nil list persists as an empty JSON
// array, never as SQL NULL.
func (l OptionList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner. Missing or non-list-shaped stored values
// decode to an empty list rather than failing; historical rows carry
// arbitrary JSON here and must not break reads.
func (l *OptionList) Scan(src interface{}) error {
	if src == nil {
		*l = OptionList{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		*l = OptionList{}
		return nil
	}

	var out OptionList
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		*l = OptionList{}
		return nil
	}
	*l = out
	return nil
}
