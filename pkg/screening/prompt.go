package screening

import (
	"fmt"
	"strings"
)

// promptTemplate is the fixed instruction sent with every request. It asks
// for a JSON object with exactly the four fields the normalizer understands.
const promptTemplate = `You are reviewing a set of profile photos. Evaluate the provided images objectively against the following criterion: %s

%sProvide your assessment as a JSON object with exactly these fields:
- "decision": "YES" or "NO" (based purely on visual elements present in the images)
- "reasoning": objective description of the visual features observed (2-3 sentences, focus on observable characteristics like photo quality, composition, style elements)
- "photo_count": number of images analyzed
- "confidence": confidence in the assessment (0.0 to 1.0)

Respond with the JSON object only. No markdown, no code fences, no commentary.`

// auxTextTemplate frames optional scraped profile text. The text is passed
// through unaltered but flagged as low-trust input.
const auxTextTemplate = `The following text was scraped from the profile, completely unaltered; weight it lightly as the formatting may be hard to parse:

%s

`

// BuildPrompt assembles the full prompt from the evaluation criterion and
// optional auxiliary profile text. Blank auxiliary text is omitted entirely.
func BuildPrompt(criterion, auxText string) string {
	auxBlock := ""
	if strings.TrimSpace(auxText) != "" {
		auxBlock = fmt.Sprintf(auxTextTemplate, auxText)
	}
	return fmt.Sprintf(promptTemplate, criterion, auxBlock)
}
