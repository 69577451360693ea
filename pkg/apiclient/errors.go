package apiclient

import (
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
)

const (
	defaultErrorMessage = "Request failed"

	// ConnectionMessage is what users see when the API cannot be reached.
	ConnectionMessage = "Unable to connect to the server. Please check your internet connection and try again."
)

// FieldErrors is the per-field message list of a validation response.
// Single strings are accepted in place of lists.
type FieldErrors map[string][]string

func (f *FieldErrors) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(FieldErrors, len(raw))
	for k, v := range raw {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			out[k] = list
			continue
		}
		var one string
		if err := json.Unmarshal(v, &one); err == nil {
			out[k] = []string{one}
		}
	}
	*f = out
	return nil
}

// ErrorBody is the decoded body of a non-2xx response. Unknown or malformed
// fields are left empty; Raw keeps everything that parsed.
type ErrorBody struct {
	Message string
	Errors  FieldErrors
	Reason  string
	Status  string
	Raw     map[string]json.RawMessage
}

func parseErrorBody(b []byte) ErrorBody {
	var body ErrorBody
	if err := json.Unmarshal(b, &body.Raw); err != nil {
		body.Raw = map[string]json.RawMessage{}
		return body
	}
	body.Message = rawString(body.Raw, "message")
	body.Reason = rawString(body.Raw, "reason")
	body.Status = rawString(body.Raw, "status")
	if v, ok := body.Raw["errors"]; ok {
		var fe FieldErrors
		if err := json.Unmarshal(v, &fe); err == nil {
			body.Errors = fe
		}
	}
	return body
}

func rawString(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Data       ErrorBody
}

func (e *APIError) Error() string {
	if e.Data.Message != "" {
		return e.Data.Message
	}
	return defaultErrorMessage
}

// FieldError returns the first message for field, if any.
func (e *APIError) FieldError(field string) string {
	if msgs := e.Data.Errors[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// TransportError covers failures where no usable HTTP response arrived.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode returns the HTTP status of an API error, or 0.
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

// FieldError returns the first server message for field carried by err.
func FieldError(err error, field string) string {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.FieldError(field)
	}
	return ""
}

// MessageOr picks the user-facing text for a failed call: the server message,
// then the connection message for transport failures, then fallback.
func MessageOr(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.Data.Message != "" {
		return apiErr.Data.Message
	}
	if IsTransport(err) {
		return ConnectionMessage
	}
	return fallback
}
