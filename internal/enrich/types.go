// Package enrich provides the optional AI enrichment collaborator. It sends a
// sanitized projection of the journal to a chat-completion API and parses the
// narrative response. Every failure mode (network, auth, malformed response)
// surfaces as an error so the analyzer can fall back to the offline report.
package enrich

import (
	"time"

	"tradebook/internal/models"
)

// tradeProjection is the reduced view of a trade sent to the service.
// Notes and photos are never included.
type tradeProjection struct {
	Pair    string   `json:"pair"`
	PnL     float64  `json:"pnl"`
	Type    string   `json:"type,omitempty"`
	Rating  int      `json:"rating,omitempty"`
	Weekday string   `json:"weekday,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// projectTrades builds the sanitized payload for the enrichment request.
func projectTrades(trades []models.Trade) []tradeProjection {
	out := make([]tradeProjection, 0, len(trades))
	for _, t := range trades {
		p := tradeProjection{
			Pair:   t.Pair,
			PnL:    t.PnL,
			Type:   string(t.Type),
			Rating: t.Rating,
			Tags:   t.Tags.Flatten(),
		}
		if date, err := time.Parse("2006-01-02", t.Date); err == nil {
			p.Weekday = date.Weekday().String()
		}
		out = append(out, p)
	}
	return out
}

// response is the expected wire shape of the model's JSON reply.
type response struct {
	Summary  string `json:"summary"`
	Insights []struct {
		Pattern        string   `json:"pattern"`
		Recommendation string   `json:"recommendation"`
		RelatedTags    []string `json:"relatedTags"`
		Topic          string   `json:"topic"`
	} `json:"insights"`
	Observations []struct {
		Text  string `json:"text"`
		Topic string `json:"topic"`
	} `json:"observations"`
}
