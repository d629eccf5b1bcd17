package platform

import (
	"fmt"
	"net/url"
	"strconv"
)

// Filters holds optional query-string parameters for list endpoints. Nil
// values are dropped; everything else is serialized as an explicit
// key=value pair.
type Filters map[string]any

// Encode renders the filters as a deterministic query string (url.Values
// sorts keys), so structurally equal filters always serialize identically.
func (f Filters) Encode() string {
	if len(f) == 0 {
		return ""
	}
	values := url.Values{}
	for key, value := range f {
		if value == nil {
			continue
		}
		values.Set(key, stringify(value))
	}
	return values.Encode()
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case interface{ String() string }:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// listEndpoint appends an encoded filter set to a collection path.
func listEndpoint(path string, filters Filters) string {
	query := filters.Encode()
	if query == "" {
		return path
	}
	return path + "?" + query
}
