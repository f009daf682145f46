package types

// Decision values that can appear in a DecisionRecord. The normalizer
// guarantees that no other value is ever produced.
const (
	DecisionYes   = "YES"
	DecisionNo    = "NO"
	DecisionError = "ERROR"
)

// ResponseStatus classifies the outcome of a single provider call.
type ResponseStatus string

const (
	// StatusSuccess means the provider returned a textual body to interpret.
	StatusSuccess ResponseStatus = "success"
	// StatusTransportError means the call failed at the network or HTTP level.
	StatusTransportError ResponseStatus = "transport_error"
	// StatusEmptyInput means no photos were submitted and no call was made.
	StatusEmptyInput ResponseStatus = "empty_input"
)

// Photo is a single encoded profile photo ready for submission.
type Photo struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	Base64    string `json:"-"`
	SizeBytes int64  `json:"size_bytes"`
}

// DataURL renders the photo as the inline data URL form the chat APIs expect.
func (p Photo) DataURL() string {
	return "data:image/jpeg;base64," + p.Base64
}

// AnalysisRequest carries everything a provider adapter needs for one call.
type AnalysisRequest struct {
	Photos    []Photo
	Criterion string
	AuxText   string
	Prompt    string
	Model     string
}

// RawResponse is the unparsed outcome of a provider call. Transport failures
// are folded into it rather than surfaced as errors; the error detail is
// preserved verbatim for diagnostics.
type RawResponse struct {
	Status     ResponseStatus
	Body       string
	HTTPStatus int
	ErrDetail  string
}

// DecisionRecord is the canonical normalized decision. Confidence is nil when
// the provider did not report one; when present it lies in [0,1].
type DecisionRecord struct {
	Decision    string   `json:"decision"`
	Reasoning   string   `json:"reasoning"`
	Confidence  *float64 `json:"confidence,omitempty"`
	PhotoCount  int      `json:"photo_count"`
	Err         string   `json:"error,omitempty"`
	RawResponse string   `json:"raw_response,omitempty"`
}

// PhotoSummary identifies one submitted photo in the persisted manifest.
type PhotoSummary struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// RunResult is the persisted output of one pipeline invocation: the decision
// record enriched with run metadata. The metadata fields are always computed
// by the assembler, never taken from anything the provider echoed back.
type RunResult struct {
	DecisionRecord

	Criterion       string         `json:"criterion"`
	Prompt          string         `json:"prompt"`
	Model           string         `json:"model"`
	APIProvider     string         `json:"api_provider"`
	PhotosProcessed []PhotoSummary `json:"photos_processed"`
	Timestamp       string         `json:"timestamp"`
	InputPhotosDir  string         `json:"input_photos_dir"`
}
