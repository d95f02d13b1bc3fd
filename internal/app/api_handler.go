package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// APIResponse is what a JSON handler hands back to the adapter. For codes of
// 400 and above Message is sent as {"error": Message} and Body is ignored.
type APIResponse struct {
	Error   error
	Message string
	Code    int
	Body    any
}

type APIHandler func(http.ResponseWriter, *http.Request) *APIResponse

func (ah APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ah(w, r)

	if resp.Error != nil {
		if resp.Code >= 500 {
			slog.Error(fmt.Sprintf(`Error occured: %s`, resp.Error.Error()))
		} else {
			slog.Debug("request rejected", "path", r.URL.Path, "error", resp.Error)
		}
	}

	code := resp.Code
	if code == 0 {
		code = http.StatusOK
	}

	body := resp.Body
	if code >= 400 {
		body = errorBody{Error: resp.Message}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()))
		code = http.StatusInternalServerError
		payload, _ = json.Marshal(errorBody{Error: "Internal server error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, err = w.Write(payload)
	if err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()))
	}
}
