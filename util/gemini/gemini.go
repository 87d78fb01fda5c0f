package gemini

import (
	"net/http"

	"google.golang.org/api/option"
)

const apiKeyHeader = "x-goog-api-key"

// ClientOptions builds the genai client options for a key, an optional
// endpoint and an optional HTTP client. option.WithHTTPClient drops every
// other auth option, so a custom client gets the key through its transport.
func ClientOptions(apiKey string, endpoint string, client *http.Client) []option.ClientOption {
	opts := []option.ClientOption{}

	if len(endpoint) > 0 {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	if client == nil {
		return append(opts, option.WithAPIKey(apiKey))
	}

	keyed := *client
	keyed.Transport = &keyTransport{key: apiKey, base: client.Transport}

	return append(opts, option.WithHTTPClient(&keyed))
}

type keyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	req = req.Clone(req.Context())
	req.Header.Set(apiKeyHeader, t.key)

	return base.RoundTrip(req)
}
