package enrich

import (
	"encoding/json"
	"fmt"
)

const systemPrompt = `You are a trading-performance coach reviewing a personal trading journal.
You receive a JSON array of trades (pair, pnl, type, rating, weekday, tags).
Respond with a single JSON object and nothing else, in this shape:
{
  "summary": "one paragraph overall assessment",
  "insights": [
    {"pattern": "...", "recommendation": "...", "relatedTags": ["strategy:..."], "topic": "strategy|risk|performance|timing"}
  ],
  "observations": [
    {"text": "...", "topic": "strategy|risk|performance|timing"}
  ]
}
Keep it qualitative. Do not restate numeric statistics; those are computed elsewhere.`

// buildUserPrompt serializes the sanitized trade projection for the model.
func buildUserPrompt(projections []tradeProjection) (string, error) {
	payload, err := json.Marshal(projections)
	if err != nil {
		return "", fmt.Errorf("marshaling trade projection: %w", err)
	}
	return fmt.Sprintf("Here are my %d most relevant trades:\n%s", len(projections), payload), nil
}
