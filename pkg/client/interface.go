package client

import (
	"context"

	"github.com/menta2k/photo-screener/pkg/types"
)

// VisionProvider is the common contract for the provider adapters. Analyze
// performs at most one outbound call and never returns an error: transport
// failures are captured in the RawResponse so the caller always gets a
// well-formed result to normalize.
type VisionProvider interface {
	Name() string
	Analyze(ctx context.Context, req types.AnalysisRequest) types.RawResponse
}

// EmptyInputResponse is what every adapter returns when the photo set is
// empty: no network call is made.
func EmptyInputResponse() types.RawResponse {
	return types.RawResponse{Status: types.StatusEmptyInput}
}

// TransportError builds a transport-failure response with the detail
// preserved verbatim.
func TransportError(httpStatus int, detail string) types.RawResponse {
	return types.RawResponse{
		Status:     types.StatusTransportError,
		HTTPStatus: httpStatus,
		ErrDetail:  detail,
	}
}
