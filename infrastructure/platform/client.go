package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// doJSON sends a request with a JSON body (nil payload for GET) and decodes
// the response body into out. Headers may be nil. The HTTP status is
// returned so callers can distinguish provider rejections; decoding is
// attempted on every status because providers put their error objects in
// non-200 bodies.
func doJSON(ctx context.Context, client *http.Client, method, rawURL string, headers map[string]string, payload, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return send(client, req, out)
}

// doForm posts application/x-www-form-urlencoded values.
func doForm(ctx context.Context, client *http.Client, rawURL string, form url.Values, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return send(client, req, out)
}

func send(client *http.Client, req *http.Request, out interface{}) (int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding provider response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
