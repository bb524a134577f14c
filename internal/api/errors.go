package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Error is a non-2xx answer from the API.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the most specific text found in the body, if any.
	Message string
	// Validation holds the entries of an "errors" field.
	Validation []string
	Body       []byte
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && len(e.Validation) > 0 {
		msg = strings.Join(e.Validation, ", ")
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// NetworkError is a request that never produced an HTTP answer.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// newError extracts the message in priority order: a JSON string body,
// "message", "error", then "errors".
func newError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, StatusCode: status, Body: body}
	if !gjson.ValidBytes(body) {
		e.Message = strings.TrimSpace(string(body))
		if len(e.Message) > 200 || strings.HasPrefix(e.Message, "<") {
			e.Message = ""
		}
		return e
	}
	root := gjson.ParseBytes(body)
	switch {
	case root.Type == gjson.String:
		e.Message = root.String()
	case nonEmpty(root.Get("message")):
		e.Message = root.Get("message").String()
	case nonEmpty(root.Get("error")):
		e.Message = root.Get("error").String()
	}
	if errs := root.Get("errors"); errs.Exists() {
		e.Validation = validationMessages(errs)
	}
	return e
}

func nonEmpty(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null && r.String() != ""
}

// validationMessages flattens ["a","b"], [{"msg":"a"}] and {"field":"a"} forms.
func validationMessages(errs gjson.Result) []string {
	var out []string
	switch {
	case errs.IsArray():
		errs.ForEach(func(_, v gjson.Result) bool {
			switch {
			case v.Type == gjson.String:
				out = append(out, v.String())
			case v.IsObject():
				for _, k := range []string{"msg", "message"} {
					if m := v.Get(k); nonEmpty(m) {
						out = append(out, m.String())
						break
					}
				}
			}
			return true
		})
	case errs.IsObject():
		errs.ForEach(func(k, v gjson.Result) bool {
			msg := v.String()
			if v.IsObject() {
				msg = v.Get("message").String()
			}
			out = append(out, k.String()+": "+msg)
			return true
		})
	case errs.Type == gjson.String:
		out = append(out, errs.String())
	}
	return out
}

// UserMessage turns err into the text shown to the user for a failed
// action, e.g. UserMessage(err, "save quotation").
func UserMessage(err error, action string) string {
	generic := fmt.Sprintf("Failed to %s. Please try again.", action)
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Message != "":
			return fmt.Sprintf("Failed to %s: %s", action, apiErr.Message)
		case len(apiErr.Validation) > 0:
			return "Validation failed: " + strings.Join(apiErr.Validation, ", ")
		case apiErr.StatusCode == http.StatusUnauthorized:
			return "Your session has expired. Please log in again."
		default:
			return generic
		}
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if errors.Is(netErr.Err, context.DeadlineExceeded) {
			return "Network error: the server did not respond in time"
		}
		return "Network error: " + netErr.Err.Error()
	}

	if errors.Is(err, ErrMalformedResponse) {
		return generic
	}
	return err.Error()
}
