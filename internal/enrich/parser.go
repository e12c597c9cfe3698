package enrich

import (
	"encoding/json"
	"fmt"
	"strings"

	"tradebook/internal/analysis"
	"tradebook/internal/models"
)

// parseResponse decodes the model reply into an Enrichment. Models wrap JSON
// in markdown fences or prose often enough that we strip fences and fall back
// to extracting the outermost object. A reply without at least a summary or
// one insight/observation is rejected rather than partially trusted.
func parseResponse(text string) (*analysis.Enrichment, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var resp response
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in response: %.120s", cleaned)
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &resp); err != nil {
			return nil, fmt.Errorf("decoding response JSON: %w", err)
		}
	}

	enr := &analysis.Enrichment{Summary: strings.TrimSpace(resp.Summary)}

	for _, in := range resp.Insights {
		if strings.TrimSpace(in.Pattern) == "" {
			continue
		}
		enr.Insights = append(enr.Insights, models.Insight{
			Pattern:        strings.TrimSpace(in.Pattern),
			Recommendation: strings.TrimSpace(in.Recommendation),
			RelatedTags:    in.RelatedTags,
			Topic:          normalizeTopic(in.Topic),
		})
	}

	for _, ob := range resp.Observations {
		if strings.TrimSpace(ob.Text) == "" {
			continue
		}
		enr.Observations = append(enr.Observations, models.Observation{
			Text:  strings.TrimSpace(ob.Text),
			Topic: normalizeTopic(ob.Topic),
		})
	}

	if enr.Summary == "" && len(enr.Insights) == 0 && len(enr.Observations) == 0 {
		return nil, fmt.Errorf("response carried no usable content")
	}

	return enr, nil
}

// normalizeTopic maps free-form topic strings onto the known topics, falling
// back to performance for anything unrecognized.
func normalizeTopic(topic string) models.InsightTopic {
	switch models.InsightTopic(strings.ToLower(strings.TrimSpace(topic))) {
	case models.TopicStrategy:
		return models.TopicStrategy
	case models.TopicRisk:
		return models.TopicRisk
	case models.TopicTiming:
		return models.TopicTiming
	default:
		return models.TopicPerformance
	}
}
