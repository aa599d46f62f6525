package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// StatusError is returned by jwget when the server answers with a non 2xx status.
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot http GET %s: %s", e.URL, e.Status)
}

// jwget performs an HTTP GET request to the given address and decodes the
// JSON response body. Numbers are kept as json.Number to preserve all their
// digits.
func jwget(ctx context.Context, client *http.Client, addr string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: resp.Request.URL.Host + resp.Request.URL.Path}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid JSON from %s: %w", resp.Request.URL.Path, err)
	}
	return jobj, nil
}

// field returns the value at path in jobj, or nil if there is none.
func field(jobj any, path string) any {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil
	}
	return jval
}

// list returns the array at path, or nil if there is none.
func list(jobj any, path string) []any {
	jlist, _ := field(jobj, path).([]any)
	return jlist
}

// stringField returns the string at path, or "" if there is none.
func stringField(jobj any, path string) string {
	switch v := field(jobj, path).(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

// upstreamError reports the message of an error envelope
// {"status": "error", "message": "..."}.
func upstreamError(jobj any) (string, bool) {
	if stringField(jobj, "$.status") != "error" {
		return "", false
	}
	return stringField(jobj, "$.message"), true
}

// toDecimal converts a JSON scalar to a decimal. The upstream encodes prices
// as strings, numbers are accepted too.
func toDecimal(jval any) (decimal.Decimal, bool) {
	var s string
	switch v := jval.(type) {
	case string:
		s = strings.TrimSpace(v)
	case json.Number:
		s = v.String()
	case float64:
		return decimal.NewFromFloat(v), true
	default:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
