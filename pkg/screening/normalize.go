package screening

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/menta2k/photo-screener/pkg/types"
)

// fallbackConfidence is reported when the provider's output was not
// well-formed JSON and the decision had to be inferred from raw text.
const fallbackConfidence = 0.5

// decisionPayload is the structured answer the prompt asks the model for.
type decisionPayload struct {
	Decision   string   `json:"decision"`
	Reasoning  string   `json:"reasoning"`
	PhotoCount int      `json:"photo_count"`
	Confidence *float64 `json:"confidence"`
}

// Normalize converts a raw provider response into a canonical decision
// record. photoCount is the number of photos actually submitted; it always
// overrides whatever count the provider reported. Normalize never fails:
// every input yields a record whose decision is YES, NO or ERROR.
func Normalize(raw types.RawResponse, photoCount int) types.DecisionRecord {
	switch raw.Status {
	case types.StatusEmptyInput:
		return types.DecisionRecord{
			Decision:   types.DecisionNo,
			Reasoning:  "No photos available for analysis",
			PhotoCount: 0,
			Err:        "No photos provided",
		}
	case types.StatusTransportError:
		reasoning := "API request error: " + raw.ErrDetail
		if raw.HTTPStatus != 0 {
			reasoning = fmt.Sprintf("API HTTP error: %d", raw.HTTPStatus)
		}
		return types.DecisionRecord{
			Decision:   types.DecisionError,
			Reasoning:  reasoning,
			PhotoCount: photoCount,
			Err:        raw.ErrDetail,
		}
	}

	body := strings.TrimSpace(raw.Body)
	payload, ok := parseDecisionPayload(body)
	if !ok {
		return fallbackRecord(body, photoCount)
	}

	return types.DecisionRecord{
		Decision:   payload.Decision,
		Reasoning:  payload.Reasoning,
		Confidence: clampConfidence(payload.Confidence),
		PhotoCount: photoCount,
	}
}

// fallbackRecord applies the crude substring heuristic: the decision is YES
// iff the body mentions "yes" in any case. Deliberately no smarter than that;
// the raw text is preserved as the reasoning.
func fallbackRecord(body string, photoCount int) types.DecisionRecord {
	decision := types.DecisionNo
	if strings.Contains(strings.ToUpper(body), types.DecisionYes) {
		decision = types.DecisionYes
	}
	confidence := fallbackConfidence
	return types.DecisionRecord{
		Decision:    decision,
		Reasoning:   body,
		Confidence:  &confidence,
		PhotoCount:  photoCount,
		RawResponse: body,
	}
}

// parseDecisionPayload attempts to read the body as the structured answer.
// It reports !ok when the body is not a JSON object or when the decision
// field is missing or outside the YES/NO/ERROR set.
func parseDecisionPayload(body string) (decisionPayload, bool) {
	raw := sanitizeModelJSON(body)

	var payload decisionPayload
	if !strings.HasPrefix(raw, "{") {
		return payload, false
	}

	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		// Conservative brace-slice retry before giving up
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return payload, false
		}
		if err2 := json.Unmarshal([]byte(raw[start:end+1]), &payload); err2 != nil {
			return payload, false
		}
	}

	payload.Decision = strings.ToUpper(strings.TrimSpace(payload.Decision))
	switch payload.Decision {
	case types.DecisionYes, types.DecisionNo, types.DecisionError:
		return payload, true
	}
	return payload, false
}

// clampConfidence bounds a reported confidence into [0,1], keeping absence.
func clampConfidence(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := *c
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}

// sanitizeModelJSON removes code fences, comments, and trailing commas from
// a model response so that strict JSON decoding has a fair chance.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	if !strings.Contains(raw, "{") {
		return strings.TrimSpace(raw)
	}

	// Remove /* ... */ block comments
	reBlock := regexp.MustCompile(`(?s)/\*.*?\*/`)
	raw = reBlock.ReplaceAllString(raw, "")

	// Remove // line/inline comments
	reLine := regexp.MustCompile(`(?m)^\s*//.*$`)
	raw = reLine.ReplaceAllString(raw, "")
	reInline := regexp.MustCompile(`(?m)//.*$`)
	raw = reInline.ReplaceAllString(raw, "")

	// Remove trailing commas before } or ]
	reTrailing := regexp.MustCompile(`,(\s*[}\]])`)
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}

	return strings.TrimSpace(raw)
}
