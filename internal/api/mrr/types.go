package mrr

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Params is the JSON body sent with every request, whatever the verb.
type Params map[string]any

// RawResult is an HTTP outcome before normalization.
type RawResult struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Data   string      `json:"data"`
}

// Result is a normalized response. Exactly one of two shapes is set:
//   - Raw is non-nil when the server answered with anything but 200.
//     The status, headers and body are passed through untouched.
//   - Otherwise Value holds the decoded JSON document, with numbers as
//     json.Number, or the body text when the client was built with
//     WithDecode(false).
type Result struct {
	Raw   *RawResult
	Value any

	body []byte
}

// OK reports whether the server answered 200.
func (r *Result) OK() bool {
	return r.Raw == nil
}

// Decode unmarshals a 200 body into v, for callers that want typed data
// instead of the generic Value.
func (r *Result) Decode(v any) error {
	if r.Raw != nil {
		return fmt.Errorf("cannot decode non-200 response (status %d)", r.Raw.Status)
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return &DecodeError{Status: http.StatusOK, Body: string(r.body), Err: err}
	}
	return nil
}

// MarshalJSON renders the passthrough envelope for non-200 results and the
// payload otherwise.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Raw != nil {
		return json.Marshal(r.Raw)
	}
	return json.Marshal(r.Value)
}
