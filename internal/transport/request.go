package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/logging"
)

// ErrorBody is the error payload PostgREST returns on failure.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// DecodeResponse decodes a JSON response into target. Non-2xx statuses
// become *errors.APIError carrying the backend's error code when present.
// A nil target discards the body.
func DecodeResponse(resp *http.Response, table string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger := logging.Default()
			if resp.Request != nil {
				logger = logging.Ctx(resp.Request.Context())
			}
			logger.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError("read", table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &errors.APIError{
			Table:      table,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
		if resp.Request != nil {
			apiErr.Method = resp.Request.Method
		}
		var eb ErrorBody
		if json.Unmarshal(body, &eb) == nil && (eb.Code != "" || eb.Message != "") {
			apiErr.Code = eb.Code
			if eb.Message != "" {
				apiErr.Message = eb.Message
				if eb.Details != "" {
					apiErr.Message += ": " + eb.Details
				}
			}
		}
		return apiErr
	}

	if target == nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", table, err)
	}
	return nil
}
