// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"tradebook/internal/models"
)

// TradeStore defines the interface for journal persistence. The analysis
// engine only ever reads from it; it is constructed explicitly and injected,
// never held as package-level state.
type TradeStore interface {
	SaveTrade(ctx context.Context, trade *models.Trade) error
	SaveTrades(ctx context.Context, trades []models.Trade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	GetTradeByID(ctx context.Context, id string) (*models.Trade, error)

	// UpdateTrade replaces the whole stored record; trades are immutable
	// apart from full-replace updates.
	UpdateTrade(ctx context.Context, trade *models.Trade) error
	DeleteTrade(ctx context.Context, id string) error
	CountTrades(ctx context.Context) (int, error)

	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	Pair      string
	StartDate string // YYYY-MM-DD inclusive
	EndDate   string // YYYY-MM-DD inclusive
	Tag       string // category-qualified key, e.g. "strategy:Breakout"
	Limit     int
}
