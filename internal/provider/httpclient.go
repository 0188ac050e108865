package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultHTTPTimeout bounds a single upstream request when the caller did
// not supply its own client.
const DefaultHTTPTimeout = 10 * time.Second

func defaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: DefaultHTTPTimeout}
}

// postJSON sends body as JSON and decodes the response into out.
func postJSON(ctx context.Context, client *http.Client, provider, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return Wrap(KindRequestFailed, provider, "marshal request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Wrap(KindRequestFailed, provider, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON(client, provider, req, out)
}

// getJSON issues a GET and decodes the response into out.
func getJSON(ctx context.Context, client *http.Client, provider, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Wrap(KindRequestFailed, provider, "build request", err)
	}
	return doJSON(client, provider, req, out)
}

func doJSON(client *http.Client, provider string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Wrap(KindRequestFailed, provider, "send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body so the connection can be reused; the
		// content itself is not surfaced since upstream errors may echo input.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return NewError(KindRequestFailed, provider, fmt.Sprintf("status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Wrap(KindResponseMalformed, provider, "decode response", err)
	}
	return nil
}
