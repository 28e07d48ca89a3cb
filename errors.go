package osclient

import (
	"errors"

	"github.com/kailas-cloud/osclient/core"
	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/transport"
	"github.com/kailas-cloud/osclient/querydsl"
	"github.com/kailas-cloud/osclient/types"
)

// Sentinel errors re-exported from the building blocks.
// Use errors.Is() to check.
var (
	ErrBuilderReused   = endpoint.ErrBuilderReused
	ErrMissingProperty = endpoint.ErrMissingProperty
	ErrNoPathTemplate  = endpoint.ErrNoPathTemplate
	ErrUnknownVariant  = querydsl.ErrUnknownVariant
	ErrNoSource        = core.ErrNoSource
	ErrInvalidBaseURL  = transport.ErrInvalidBaseURL
	ErrBodyTooLarge    = transport.ErrBodyTooLarge

	// ErrDocumentNotFound is returned by TypedIndex lookups and deletes.
	ErrDocumentNotFound = errors.New("osclient: document not found")
)

// AsErrorResponse returns the structured server error wrapped in err, or nil.
func AsErrorResponse(err error) *types.ErrorResponse {
	var er *types.ErrorResponse
	if errors.As(err, &er) {
		return er
	}
	return nil
}
