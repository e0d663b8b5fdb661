package source

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// PgSource reads indexer tables from PostgreSQL. The pool is owned by the caller.
type PgSource struct {
	pool          *pgxpool.Pool
	communityPool CommunityPoolFetcher
}

// NewPgSource creates a PgSource. Community pool balances come from cp, not the database.
func NewPgSource(pool *pgxpool.Pool, cp CommunityPoolFetcher) *PgSource {
	return &PgSource{pool: pool, communityPool: cp}
}

// queryFailed maps a pgx error to the domain error taxonomy and logs the original.
func queryFailed(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Unavailablef("%s: no matching row", op)
	}
	slog.Error("indexer query failed", "op", op, "error", err)
	return domain.NewQueryError(op, err)
}

func checkHeight(height int64) error {
	if height < 0 {
		return domain.InvalidHeightf("height %d is negative", height)
	}
	return nil
}

func (s *PgSource) LatestBlock(ctx context.Context) (domain.Block, error) {
	var b domain.Block
	err := s.pool.QueryRow(ctx,
		`SELECT height, timestamp FROM block_details
		 ORDER BY height DESC
		 LIMIT 1`).Scan(&b.Height, &b.Timestamp)
	if err != nil {
		return domain.Block{}, queryFailed("latest block", err)
	}
	return b, nil
}

func (s *PgSource) BlockAtOrBefore(ctx context.Context, height int64) (domain.Block, error) {
	if err := checkHeight(height); err != nil {
		return domain.Block{}, err
	}
	var b domain.Block
	err := s.pool.QueryRow(ctx,
		`SELECT height, timestamp FROM block_details
		 WHERE height <= $1
		 ORDER BY height DESC
		 LIMIT 1`, height).Scan(&b.Height, &b.Timestamp)
	if err != nil {
		return domain.Block{}, queryFailed("block at or before height", err)
	}
	return b, nil
}

func (s *PgSource) SupplyAt(ctx context.Context, height int64) (domain.SupplySnapshot, error) {
	if err := checkHeight(height); err != nil {
		return domain.SupplySnapshot{}, err
	}
	var (
		snap             domain.SupplySnapshot
		price, marketCap decimal.NullDecimal
	)
	err := s.pool.QueryRow(ctx,
		`SELECT i.height, b.timestamp, i.total, i.staked, i.price, i.market_cap
		 FROM insights_supply i
		 JOIN block_details b ON b.height = i.height
		 WHERE i.height <= $1
		 ORDER BY i.height DESC
		 LIMIT 1`, height).Scan(&snap.Height, &snap.Timestamp, &snap.TotalSupply, &snap.StakedSupply, &price, &marketCap)
	if err != nil {
		return domain.SupplySnapshot{}, queryFailed("supply at height", err)
	}
	snap.Price = nullable(price)
	snap.MarketCap = nullable(marketCap)
	return snap, nil
}

func (s *PgSource) SupplySeries(ctx context.Context, start, end time.Time) ([]domain.SupplySnapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT i.height, b.timestamp, i.total, i.staked, i.price, i.market_cap
		 FROM insights_supply i
		 JOIN block_details b ON b.height = i.height
		 WHERE b.timestamp BETWEEN $1 AND $2
		 ORDER BY i.height`, start, end)
	if err != nil {
		return nil, queryFailed("supply series", err)
	}
	defer rows.Close()

	var series []domain.SupplySnapshot
	for rows.Next() {
		var (
			snap             domain.SupplySnapshot
			price, marketCap decimal.NullDecimal
		)
		if err := rows.Scan(&snap.Height, &snap.Timestamp, &snap.TotalSupply, &snap.StakedSupply, &price, &marketCap); err != nil {
			return nil, queryFailed("scanning supply series", err)
		}
		snap.Price = nullable(price)
		snap.MarketCap = nullable(marketCap)
		series = append(series, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("iterating supply series", err)
	}
	return series, nil
}

func (s *PgSource) UnstakedAt(ctx context.Context, height int64) (domain.UnstakedSupplyComponents, error) {
	if err := checkHeight(height); err != nil {
		return domain.UnstakedSupplyComponents{}, err
	}
	var u domain.UnstakedSupplyComponents
	err := s.pool.QueryRow(ctx,
		`SELECT height, um, auction, dex, arb, fees
		 FROM supply_total_unstaked
		 WHERE height <= $1
		 ORDER BY height DESC
		 LIMIT 1`, height).Scan(&u.Height, &u.Circulating, &u.AuctionLocked, &u.DexLiquidity, &u.ArbitrageBurned, &u.FeeBurned)
	if err != nil {
		return domain.UnstakedSupplyComponents{}, queryFailed("unstaked supply at height", err)
	}
	return u, nil
}

func (s *PgSource) DelegatedAt(ctx context.Context, height int64) ([]domain.DelegatedSupplyComponent, error) {
	if err := checkHeight(height); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT ON (validator_id) validator_id, height, um, del_um, rate_bps2
		 FROM supply_total_staked
		 WHERE height <= $1
		 ORDER BY validator_id, height DESC`, height)
	if err != nil {
		return nil, queryFailed("delegated supply at height", err)
	}
	defer rows.Close()

	var components []domain.DelegatedSupplyComponent
	for rows.Next() {
		var c domain.DelegatedSupplyComponent
		if err := rows.Scan(&c.ValidatorID, &c.Height, &c.BaseAmount, &c.DelegatedAmount, &c.ConversionRateBps2); err != nil {
			return nil, queryFailed("scanning delegated supply", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("iterating delegated supply", err)
	}
	return components, nil
}

func (s *PgSource) BurnsAt(ctx context.Context, height int64) (domain.BurnRecord, error) {
	if err := checkHeight(height); err != nil {
		return domain.BurnRecord{}, err
	}
	var r domain.BurnRecord
	err := s.pool.QueryRow(ctx,
		`SELECT u.height, b.timestamp, u.fees, u.arb, u.auction, u.dex
		 FROM supply_total_unstaked u
		 JOIN block_details b ON b.height = u.height
		 WHERE u.height <= $1
		 ORDER BY u.height DESC
		 LIMIT 1`, height).Scan(&r.Height, &r.Timestamp, &r.FeeBurns, &r.ArbitrageBurns, &r.AuctionBurns, &r.DexBurns)
	if err != nil {
		return domain.BurnRecord{}, queryFailed("burns at height", err)
	}
	return r, nil
}

// burnSeriesQuery turns cumulative burn rows into per-row increments over [$1, $2].
// The inner scan starts at the last row before $1 so the first increment in range
// is taken against its real predecessor.
const burnSeriesQuery = `SELECT height, timestamp, fees, arb, auction, dex FROM (
   SELECT u.height, b.timestamp,
          u.fees - LAG(u.fees, 1, u.fees) OVER w AS fees,
          u.arb - LAG(u.arb, 1, u.arb) OVER w AS arb,
          u.auction - LAG(u.auction, 1, u.auction) OVER w AS auction,
          u.dex - LAG(u.dex, 1, u.dex) OVER w AS dex
   FROM supply_total_unstaked u
   JOIN block_details b ON b.height = u.height
   WHERE u.height >= COALESCE((
           SELECT max(p.height)
           FROM supply_total_unstaked p
           JOIN block_details pb ON pb.height = p.height
           WHERE pb.timestamp < $1
         ), 0)
     AND b.timestamp <= $2
   WINDOW w AS (ORDER BY u.height)
 ) deltas
 WHERE timestamp BETWEEN $1 AND $2
 ORDER BY height`

func (s *PgSource) BurnSeries(ctx context.Context, start, end time.Time) ([]domain.BurnRecord, error) {
	rows, err := s.pool.Query(ctx, burnSeriesQuery, start, end)
	if err != nil {
		return nil, queryFailed("burn series", err)
	}
	defer rows.Close()

	var series []domain.BurnRecord
	for rows.Next() {
		var r domain.BurnRecord
		if err := rows.Scan(&r.Height, &r.Timestamp, &r.FeeBurns, &r.ArbitrageBurns, &r.AuctionBurns, &r.DexBurns); err != nil {
			return nil, queryFailed("scanning burn series", err)
		}
		series = append(series, r)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("iterating burn series", err)
	}
	return series, nil
}

func (s *PgSource) Market(ctx context.Context) (domain.MarketData, error) {
	var m domain.MarketData
	err := s.pool.QueryRow(ctx,
		`SELECT i.height, b.timestamp, i.price, COALESCE(d.direct_volume, 0)
		 FROM insights_supply i
		 JOIN block_details b ON b.height = i.height
		 LEFT JOIN dex_ex_aggregate_summary d ON d.the_window = '1d'
		 WHERE i.price IS NOT NULL
		 ORDER BY i.height DESC
		 LIMIT 1`).Scan(&m.Height, &m.Timestamp, &m.Price, &m.Volume24h)
	if err != nil {
		return domain.MarketData{}, queryFailed("market data", err)
	}
	return m, nil
}

func (s *PgSource) CommunityPool(ctx context.Context) (decimal.Decimal, error) {
	return s.communityPool.CommunityPool(ctx)
}

func (s *PgSource) LatestEpoch(ctx context.Context) (int64, error) {
	var epoch int64
	err := s.pool.QueryRow(ctx, `SELECT MAX(epoch) FROM lqt_participants HAVING MAX(epoch) IS NOT NULL`).Scan(&epoch)
	if err != nil {
		return 0, queryFailed("latest LQT epoch", err)
	}
	return epoch, nil
}

func (s *PgSource) LQTParticipants(ctx context.Context, epoch int64) ([]domain.LQTParticipant, error) {
	if epoch < 0 {
		return nil, domain.InvalidHeightf("epoch %d is negative", epoch)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT address, points, volume_in, volume_out, rewards
		 FROM lqt_participants
		 WHERE epoch = $1
		 ORDER BY id`, epoch)
	if err != nil {
		return nil, queryFailed("LQT participants", err)
	}
	participants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LQTParticipant, error) {
		var p domain.LQTParticipant
		err := row.Scan(&p.Address, &p.Points, &p.VolumeIn, &p.VolumeOut, &p.Rewards)
		return p, err
	})
	if err != nil {
		return nil, queryFailed("scanning LQT participants", err)
	}
	if len(participants) == 0 {
		return nil, domain.Unavailablef("no LQT participants for epoch %d", epoch)
	}
	return participants, nil
}

func nullable(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}
