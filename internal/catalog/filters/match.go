package filters

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"backoffice_backend/internal/catalog/repository"
	"backoffice_backend/platform/apperr"
)

// Active maps attribute keys to the chosen filter value. The value's Go type
// selects the predicate: bool is an exact match, []string accepts any listed
// value, float64 is an "at least" threshold and string is exact equality.
type Active map[string]any

// Matches reports whether attributes satisfy every active filter. A missing
// attribute never matches.
func Matches(attributes map[string]any, active Active) bool {
	for key, want := range active {
		got, ok := attributes[key]
		if !ok || got == nil {
			return false
		}
		if !matchOne(got, want) {
			return false
		}
	}
	return true
}

// Apply returns the offerings whose attributes match every active filter.
func Apply(offerings []repository.Offering, active Active) []repository.Offering {
	if len(active) == 0 {
		return offerings
	}
	out := make([]repository.Offering, 0, len(offerings))
	for _, o := range offerings {
		if Matches(o.Attributes, active) {
			out = append(out, o)
		}
	}
	return out
}

func matchOne(got, want any) bool {
	switch w := want.(type) {
	case bool:
		if _, isNumber := got.(float64); isNumber {
			return false
		}
		b, err := cast.ToBoolE(got)
		return err == nil && b == w
	case []string:
		for _, candidate := range scalarStrings(got) {
			for _, accepted := range w {
				if candidate == accepted {
					return true
				}
			}
		}
		return false
	case float64:
		if _, isBool := got.(bool); isBool {
			return false
		}
		n, err := cast.ToFloat64E(got)
		return err == nil && n >= w
	case string:
		s, err := cast.ToStringE(got)
		return err == nil && s == w
	default:
		return false
	}
}

// scalarStrings flattens an attribute into comparable strings. List-valued
// attributes match when any element is accepted.
func scalarStrings(v any) []string {
	if list, ok := v.([]any); ok {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, err := cast.ToStringE(item); err == nil {
				out = append(out, s)
			}
		}
		return out
	}
	if s, err := cast.ToStringE(v); err == nil {
		return []string{s}
	}
	return nil
}

// ParseActive converts raw query values into typed active filters using the
// industry's definitions. Empty values are ignored. Multi-select values are
// comma separated.
func ParseActive(defs []Definition, raw map[string]string) (Active, error) {
	byKey := make(map[string]Definition, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}

	active := make(Active, len(raw))
	for key, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		def, ok := byKey[key]
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("unknown filter %q", key))
		}

		switch def.Type {
		case TypeBoolean:
			b, err := cast.ToBoolE(value)
			if err != nil {
				return nil, apperr.Validation(fmt.Sprintf("filter %q expects true or false", key))
			}
			active[key] = b
		case TypeRange:
			n, err := cast.ToFloat64E(value)
			if err != nil {
				return nil, apperr.Validation(fmt.Sprintf("filter %q expects a number", key))
			}
			active[key] = n
		case TypeMultiSelect:
			parts := strings.Split(value, ",")
			accepted := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					accepted = append(accepted, p)
				}
			}
			active[key] = accepted
		default:
			active[key] = value
		}
	}
	return active, nil
}
