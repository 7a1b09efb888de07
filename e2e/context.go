package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TestContext carries one scenario's HTTP state: the last response and any
// values captured for later steps, such as the current import id.
type TestContext struct {
	BaseURL  string
	client   *http.Client
	status   int
	body     []byte
	importID string
}

// NewTestContext creates a context talking to the server at baseURL.
func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.status = 0
	tc.body = nil
	tc.importID = ""
}

func (tc *TestContext) POST(path string, body string) error {
	return tc.do(http.MethodPost, path, body)
}

func (tc *TestContext) PATCH(path string, body string) error {
	return tc.do(http.MethodPatch, path, body)
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, "")
}

func (tc *TestContext) do(method, path, body string) error {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, tc.BaseURL+tc.expand(path), reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.body, err = io.ReadAll(resp.Body)
	return err
}

// expand substitutes {import_id} with the id captured from the last import.
func (tc *TestContext) expand(path string) string {
	return strings.ReplaceAll(path, "{import_id}", tc.importID)
}

func (tc *TestContext) StatusCode() int {
	return tc.status
}

func (tc *TestContext) Body() []byte {
	return tc.body
}

// SetImportID records the import id used by later paths.
func (tc *TestContext) SetImportID(importID string) {
	tc.importID = importID
}

// GetResponseField walks a dotted path such as "data.0.citizen_id" through
// the last JSON response.
func (tc *TestContext) GetResponseField(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.body, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	cur := doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found", path)
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q", path)
		}
	}
	return cur, nil
}
