package ideal

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Preambles a proxy or server may put in front of the real HTTP message.
var preambles = []string{
	"HTTP/1.0 200 Connection established\r\n\r\n",
	"HTTP/1.1 200 Connection established\r\n\r\n",
	"HTTP/1.1 100 Continue\r\n\r\n",
}

// RawResponse is an HTTP reply split into its framing parts.
type RawResponse struct {
	StatusLine string
	Headers    []string
	Body       []byte
}

// ParseRawResponse frames a raw HTTP reply. CONNECT tunnel and 100 Continue
// preambles are stripped first; without that a proxied reply would be
// misread as one with an empty body.
func ParseRawResponse(raw []byte) (*RawResponse, error) {
	text := string(raw)
	for stripped := true; stripped; {
		stripped = false
		for _, p := range preambles {
			if len(text) >= len(p) && strings.EqualFold(text[:len(p)], p) {
				text = text[len(p):]
				stripped = true
			}
		}
	}

	head, body, found := strings.Cut(text, "\r\n\r\n")
	if !found {
		return nil, fmt.Errorf("no header terminator in %d byte reply", len(raw))
	}
	lines := strings.Split(head, "\r\n")
	return &RawResponse{
		StatusLine: lines[0],
		Headers:    lines[1:],
		Body:       []byte(body),
	}, nil
}

// endpoint resolves the acquirer URL for a request kind.
func (c *Client) endpoint(kind RequestKind) string {
	var u string
	switch kind {
	case DirectoryReq:
		u = c.cfg.DirectoryURL
	case TransactionReq:
		u = c.cfg.TransactionURL
	case StatusReq:
		u = c.cfg.StatusURL
	}
	if u == "" {
		u = c.cfg.BaseURL
	}
	return u
}

// post sends the signed request and returns the framed reply.
func (c *Client) post(ctx context.Context, req Request) (*RawResponse, error) {
	endpoint := c.endpoint(req.Kind())
	if endpoint == "" {
		return nil, newError(KindConfiguration, nil, "no endpoint configured for %s", req.Kind())
	}

	payload, err := req.Bytes()
	if err != nil {
		return nil, newError(KindTransport, err, "serialize %s", req.Kind())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, newError(KindConfiguration, err, "build request for %s", endpoint)
	}
	httpReq.Header.Set("Content-Type", ContentType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("ideal: acquirer unreachable")
		return nil, newError(KindTransport, err, "post %s", req.Kind())
	}
	defer resp.Body.Close()

	// Rebuild the message as it came off the wire so the framing rules
	// apply to direct and proxied replies alike.
	var wire bytes.Buffer
	fmt.Fprintf(&wire, "HTTP/%d.%d %s\r\n", resp.ProtoMajor, resp.ProtoMinor, resp.Status)
	if err := resp.Header.Write(&wire); err != nil {
		return nil, newError(KindTransport, err, "read headers")
	}
	wire.WriteString("\r\n")
	if _, err := io.Copy(&wire, resp.Body); err != nil {
		return nil, newError(KindTransport, err, "read body")
	}

	raw, err := ParseRawResponse(wire.Bytes())
	if err != nil {
		return nil, newError(KindTransport, err, "frame reply")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("ideal: non-2xx reply from acquirer")
	}
	c.log.Debug().
		Str("kind", string(req.Kind())).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(raw.Body)).
		Msg("ideal: request sent")
	return raw, nil
}

// newHTTPClient builds the default transport from the proxy and TLS settings.
func newHTTPClient(cfg Config) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, newError(KindConfiguration, err, "proxy url")
		}
		transport.Proxy = http.ProxyURL(proxy)
	}
	if cfg.DisableVerification {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit sandbox opt-out
	}
	return &http.Client{Transport: transport, Timeout: cfg.Timeout}, nil
}
