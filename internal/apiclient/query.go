package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// joinURL concatenates the base URL and path with exactly one slash.
func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// encodeQuery serialises params as a query string. Nil values and nil
// pointers are skipped; pointers are dereferenced.
func encodeQuery(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	vals := url.Values{}
	for k, v := range params {
		s, ok := queryValue(v)
		if !ok {
			continue
		}
		vals.Set(k, s)
	}
	return vals.Encode()
}

func queryValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	return fmt.Sprint(rv.Interface()), true
}

func withQuery(target string, params map[string]any) string {
	q := encodeQuery(params)
	if q == "" {
		return target
	}
	if strings.Contains(target, "?") {
		return target + "&" + q
	}
	return target + "?" + q
}
