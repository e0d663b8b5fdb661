package network

import (
	"time"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// Context carries the configuration and the latest observed block through one
// aggregation call. It is created per call and never shared between calls.
type Context struct {
	Config           Config
	CurrentHeight    int64
	CurrentTimestamp time.Time
}

// NewContext creates a Context for cfg with no block observed yet.
func NewContext(cfg Config) *Context {
	return &Context{Config: cfg}
}

// Observe records the latest block. Negative heights are rejected.
func (c *Context) Observe(b domain.Block) error {
	if b.Height < 0 {
		return domain.InvalidHeightf("latest block height %d is negative", b.Height)
	}
	c.CurrentHeight = b.Height
	c.CurrentTimestamp = b.Timestamp.UTC()
	return nil
}

// LookbackHeight returns the height roughly days ago, never below 1.
func (c *Context) LookbackHeight(days int) int64 {
	return max(1, c.CurrentHeight-c.Config.BlocksPerDay*int64(days))
}
