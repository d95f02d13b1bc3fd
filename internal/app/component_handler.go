package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type component interface {
	Render(ctx context.Context, w io.Writer) error
}

type ComponentResponse struct {
	Error     error
	Code      int
	Component component
}

type ComponentHandler func(http.ResponseWriter, *http.Request) *ComponentResponse

// ServeHTTP renders the component into a buffer before writing headers. htmx
// only swaps 2xx responses, so error components sent to htmx requests go out
// with 200.
func (ch ComponentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ch(w, r)

	if resp.Error != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, resp.Error.Error()))
	}

	code := resp.Code
	if code == 0 || (code >= 300 && r.Header.Get("HX-Request") == "true") {
		code = http.StatusOK
	}

	var buf bytes.Buffer
	if err := resp.Component.Render(r.Context(), &buf); err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()))
		http.Error(w, "templ: failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()))
	}
}
