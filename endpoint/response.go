package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/osclient/types"
)

// ErrEmptyResponse signals a success status with no body where one was expected.
var ErrEmptyResponse = errors.New("endpoint: empty response body")

// Decoder turns a Response into a typed result or an error.
type Decoder[Res any] func(*Response) (Res, error)

// BooleanResponse is the result of existence-style endpoints.
type BooleanResponse struct {
	Value bool
}

// IsSuccess reports a 2xx status code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// JSONDecoder decodes 2xx bodies as JSON into Res. Statuses listed in
// ignored are decoded the same way (e.g. 404 for lookups whose body still
// carries a result) unless the body is an error document. Any other status
// yields a *types.ErrorResponse.
func JSONDecoder[Res any](ignored ...int) Decoder[Res] {
	return func(resp *Response) (Res, error) {
		var out Res
		if !IsSuccess(resp.StatusCode) &&
			(!contains(ignored, resp.StatusCode) || types.IsErrorDocument(resp.Body)) {
			return out, types.DecodeErrorResponse(resp.StatusCode, resp.Body)
		}
		if len(resp.Body) == 0 {
			return out, fmt.Errorf("status %d: %w", resp.StatusCode, ErrEmptyResponse)
		}
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return out, fmt.Errorf("decode response: %w", err)
		}
		return out, nil
	}
}

// BooleanDecoder maps 2xx to true and 404 to false. Every other status is
// a *types.ErrorResponse.
func BooleanDecoder() Decoder[BooleanResponse] {
	return func(resp *Response) (BooleanResponse, error) {
		switch {
		case IsSuccess(resp.StatusCode):
			return BooleanResponse{Value: true}, nil
		case resp.StatusCode == http.StatusNotFound:
			return BooleanResponse{Value: false}, nil
		default:
			return BooleanResponse{}, types.DecodeErrorResponse(resp.StatusCode, resp.Body)
		}
	}
}

func contains(codes []int, code int) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
