package api

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrMalformedResponse means a 2xx body did not contain the expected
// resource in any accepted envelope.
var ErrMalformedResponse = errors.New("malformed API response")

// The canonical envelope is {"data": X}. A bare X and the doubly nested
// {"data": {"data": X}} are still accepted and reported as legacy.
const canonicalPath = "data"

var objectPaths = []string{"data.data", canonicalPath, "@this"}

// unwrapObject locates the JSON object carrying at least one of keys.
func unwrapObject(body []byte, keys ...string) (raw string, legacy bool, err error) {
	if !gjson.ValidBytes(body) {
		return "", false, ErrMalformedResponse
	}
	root := gjson.ParseBytes(body)
	for _, p := range objectPaths {
		candidate := root.Get(p)
		if !candidate.IsObject() || !hasAnyKey(candidate, keys) {
			continue
		}
		return candidate.Raw, p != canonicalPath, nil
	}
	return "", false, ErrMalformedResponse
}

// unwrapList locates the JSON array for resource, e.g. "components".
func unwrapList(body []byte, resource string) (raw string, legacy bool, err error) {
	if !gjson.ValidBytes(body) {
		return "", false, ErrMalformedResponse
	}
	root := gjson.ParseBytes(body)
	paths := []string{canonicalPath, "@this", "data.data"}
	if resource != "" {
		paths = append(paths, resource, "data."+resource)
	}
	for _, p := range paths {
		candidate := root.Get(p)
		if candidate.IsArray() {
			return candidate.Raw, p != canonicalPath, nil
		}
	}
	return "", false, ErrMalformedResponse
}

func hasAnyKey(obj gjson.Result, keys []string) bool {
	if len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if v := obj.Get(k); v.Exists() && v.Type != gjson.Null {
			return true
		}
	}
	return false
}
