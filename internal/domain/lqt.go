package domain

import "github.com/shopspring/decimal"

// LQTParticipant is one liquidity provider's standing in a tournament epoch.
type LQTParticipant struct {
	Address   string          `json:"address"`
	Points    decimal.Decimal `json:"points"`
	VolumeIn  decimal.Decimal `json:"volumeIn"`
	VolumeOut decimal.Decimal `json:"volumeOut"`
	Rewards   decimal.Decimal `json:"rewards"`
}

// RankedParticipant is an LQTParticipant with its computed score and 1-based rank.
type RankedParticipant struct {
	LQTParticipant
	Score decimal.Decimal `json:"score"`
	Rank  int             `json:"rank"`
}
