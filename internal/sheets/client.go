package sheets

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ApplicationName is sent as the user agent on every Sheets call.
const ApplicationName = "MinimalApiSheets"

type Client struct {
	service *sheets.Service
}

// NewClient builds a read-only Sheets client from service account JSON.
// The access token is fetched under each call's context; tokenTimeout bounds
// the token request itself, zero meaning no bound. Extra options are applied
// after the credentials.
func NewClient(ctx context.Context, credentialsJSON []byte, tokenTimeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: tokenTimeout})
	httpClient := &http.Client{
		Transport: &tokenTransport{
			source: jwtConfig.TokenSource(tokenCtx),
			base:   http.DefaultTransport,
		},
	}

	clientOpts := []option.ClientOption{
		option.WithHTTPClient(httpClient),
		option.WithUserAgent(ApplicationName),
	}
	return NewClientWithOptions(ctx, append(clientOpts, opts...)...)
}

// NewClientWithOptions builds a client from raw API options, for callers that
// manage authentication or the endpoint themselves.
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

func (c *Client) ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %q: %w", readRange, err)
	}

	return resp.Values, nil
}

// tokenTransport authorizes each request with a token from source. Waiting
// for the token stops when the request context is done.
type tokenTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.token(req.Context())
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}

	authorized := req.Clone(req.Context())
	token.SetAuthHeader(authorized)
	return t.base.RoundTrip(authorized)
}

func (t *tokenTransport) token(ctx context.Context) (*oauth2.Token, error) {
	type result struct {
		token *oauth2.Token
		err   error
	}
	done := make(chan result, 1)
	go func() {
		token, err := t.source.Token()
		done <- result{token: token, err: err}
	}()

	select {
	case res := <-done:
		return res.token, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to fetch access token: %w", ctx.Err())
	}
}
