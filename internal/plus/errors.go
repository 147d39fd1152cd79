package plus

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrPutNotImplemented is returned by Send for the PUT verb. The service
// does not accept PUT yet; surfacing the error beats a silent no-op.
var ErrPutNotImplemented = errors.New("PUT requests are not implemented")

// APIError reports a non-2xx response from the service, carrying the
// server-supplied error message when one was present in the body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("plus API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("plus API error %d", e.StatusCode)
}

// APIError returns an *APIError for 4xx/5xx responses, nil otherwise.
// The server error string is extracted from the body on a best-effort basis.
func (r *Response) APIError() error {
	if r.StatusCode < 400 {
		return nil
	}
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(r.Body, &body)
	return &APIError{StatusCode: r.StatusCode, Message: body.Error}
}
