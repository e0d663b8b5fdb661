package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
	"github.com/mtlprog/tokenomics/internal/network"
	"github.com/mtlprog/tokenomics/internal/observability"
	"github.com/mtlprog/tokenomics/internal/source"
)

const defaultConcurrency = 8

// Operation names used in logs and metrics.
const (
	opSummary      = "summary"
	opSupply       = "supply"
	opBurn         = "burn"
	opIssuance     = "issuance"
	opDistribution = "distribution"
	opInflation    = "inflation"
	opLQT          = "lqt"
)

// Option configures a Service.
type Option func(*Service)

// WithPool runs fetches on p. The caller keeps ownership of p.
func WithPool(p pond.Pool) Option {
	return func(s *Service) { s.pool = p }
}

// WithMetrics records aggregation durations and failures on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service composes data fetchers and formulas into metric results.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	src       source.DataSource
	cfg       network.Config
	pool      pond.Pool
	ownsPool  bool
	metrics   *observability.Metrics
	precision network.Precision
}

// NewService creates a Service over src using the network constants in cfg.
func NewService(src source.DataSource, cfg network.Config, opts ...Option) *Service {
	s := &Service{src: src, cfg: cfg, precision: cfg.Precision}
	for _, opt := range opts {
		opt(s)
	}
	if s.pool == nil {
		s.pool = pond.NewPool(defaultConcurrency)
		s.ownsPool = true
	}
	return s
}

// Close stops the worker pool if the Service created it.
func (s *Service) Close() {
	if s.ownsPool {
		s.pool.StopAndWait()
	}
}

// Config returns the network constants the Service was built with.
func (s *Service) Config() network.Config {
	return s.cfg
}

// newContext fetches the latest block and returns a calculation context anchored at it.
func (s *Service) newContext(ctx context.Context) (*network.Context, error) {
	block, err := s.src.LatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching latest block: %w", err)
	}
	cc := network.NewContext(s.cfg)
	if err := cc.Observe(block); err != nil {
		return nil, err
	}
	return cc, nil
}

// fetch runs tasks concurrently on the pool and waits for all of them.
// Task errors are returned in task order; a failure the tasks could not report
// themselves, such as a panic, is returned after them.
func (s *Service) fetch(ctx context.Context, op string, tasks ...func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	group := s.pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	errs := make([]error, len(tasks))
	for i, task := range tasks {
		group.SubmitErr(func() error {
			if err := groupCtx.Err(); err != nil {
				errs[i] = err
				return err
			}
			errs[i] = task(groupCtx)
			return errs[i]
		})
	}
	waitErr := group.Wait()

	// Siblings of a failed task see the group context cancelled; report the cause first.
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if waitErr != nil && !errors.Is(waitErr, context.Canceled) && !errors.Is(waitErr, pond.ErrGroupStopped) {
		slog.Error("parallel fetch failed", "operation", op, "error", waitErr)
		return fmt.Errorf("parallel fetch for %s: %w", op, waitErr)
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	if waitErr != nil {
		return fmt.Errorf("parallel fetch for %s: %w", op, waitErr)
	}
	return nil
}

func (s *Service) observe(op string, start time.Time, errp *error) {
	err := *errp
	s.metrics.ObserveAggregation(op, start, err)
	if err != nil {
		slog.Debug("aggregation failed", "operation", op, "error", err)
	}
}

// historicalSupply resolves the block at or before height and returns the supply there.
func (s *Service) historicalSupply(ctx context.Context, height int64) (domain.SupplySnapshot, error) {
	block, err := s.src.BlockAtOrBefore(ctx, height)
	if err != nil {
		return domain.SupplySnapshot{}, fmt.Errorf("resolving block at or before %d: %w", height, err)
	}
	snap, err := s.src.SupplyAt(ctx, block.Height)
	if err != nil {
		return domain.SupplySnapshot{}, fmt.Errorf("fetching supply at %d: %w", block.Height, err)
	}
	return s.displaySupply(snap), nil
}

func (s *Service) display(base decimal.Decimal) decimal.Decimal {
	return s.precision.Display(base)
}

func (s *Service) percent(v decimal.Decimal) decimal.Decimal {
	return s.precision.Percent(v)
}

func (s *Service) displaySupply(snap domain.SupplySnapshot) domain.SupplySnapshot {
	snap.TotalSupply = s.display(snap.TotalSupply)
	snap.StakedSupply = s.display(snap.StakedSupply)
	return snap
}

func (s *Service) displayUnstaked(u domain.UnstakedSupplyComponents) domain.UnstakedSupplyComponents {
	u.Circulating = s.display(u.Circulating)
	u.AuctionLocked = s.display(u.AuctionLocked)
	u.DexLiquidity = s.display(u.DexLiquidity)
	u.ArbitrageBurned = s.display(u.ArbitrageBurned)
	u.FeeBurned = s.display(u.FeeBurned)
	return u
}

func (s *Service) displayBurn(r domain.BurnRecord) domain.BurnRecord {
	r.FeeBurns = s.display(r.FeeBurns)
	r.ArbitrageBurns = s.display(r.ArbitrageBurns)
	r.AuctionBurns = s.display(r.AuctionBurns)
	r.DexBurns = s.display(r.DexBurns)
	return r
}

func (s *Service) displayDelegated(c domain.DelegatedSupplyComponent) domain.DelegatedSupplyComponent {
	c.BaseAmount = s.display(c.BaseAmount)
	c.DelegatedAmount = s.display(c.DelegatedAmount)
	return c
}
