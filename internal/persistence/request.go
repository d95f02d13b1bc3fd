package persistence

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixbrock/ideaspark/internal/app"
)

type reqConfig struct {
	Method    string
	Url       string
	UrlParams []string
	Headers   []string
	Body      []byte
}

// request sends config and decodes the JSON response into T. An empty response
// body yields a zero T.
func request[T any](ctx context.Context, config reqConfig, expectedResCode int) (*T, error) {
	url := config.Url
	if len(config.UrlParams) > 0 {
		url = fmt.Sprintf("%s?%s", url, strings.Join(config.UrlParams, "&"))
	}

	req, err := http.NewRequestWithContext(ctx, config.Method, url, bytes.NewBuffer(config.Body))

	if err != nil {
		return nil, err
	}

	for i := 0; i < len(config.Headers); i++ {
		headerKV := strings.SplitN(config.Headers[i], ":", 2)
		if len(headerKV) != 2 {
			return nil, fmt.Errorf("malformed header %q", config.Headers[i])
		}
		req.Header.Add(strings.TrimSpace(headerKV[0]), strings.TrimSpace(headerKV[1]))
	}

	resp, err := http.DefaultClient.Do(req)

	if err != nil {
		return nil, err
	}

	body, err := app.Read(resp.Body)

	if err != nil {
		return nil, err
	} else if resp.StatusCode != expectedResCode {
		return nil, fmt.Errorf("unexpected response status code %d from %s %s: %s",
			resp.StatusCode, config.Method, config.Url, truncate(body, 200))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return new(T), nil
	}

	return app.ReadJSON[T](body)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
