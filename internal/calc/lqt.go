package calc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// LQTMethod selects how a liquidity-tournament participant is scored.
type LQTMethod string

const (
	LQTByPoints   LQTMethod = "points"
	LQTByVolume   LQTMethod = "volume"
	LQTByCombined LQTMethod = "combined"
)

var (
	combinedPointsWeight = decimal.RequireFromString("0.7")
	combinedVolumeWeight = decimal.RequireFromString("0.3")
)

// ParseLQTMethod parses a scoring method name. An empty name selects points.
func ParseLQTMethod(s string) (LQTMethod, error) {
	switch m := LQTMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return LQTByPoints, nil
	case LQTByPoints, LQTByVolume, LQTByCombined:
		return m, nil
	default:
		return "", fmt.Errorf("unknown LQT method %q", s)
	}
}

// LQTScore returns a participant's liquidity-provided score under method.
// Unknown methods score by points.
func LQTScore(p domain.LQTParticipant, method LQTMethod) decimal.Decimal {
	volume := p.VolumeIn.Add(p.VolumeOut)
	switch method {
	case LQTByVolume:
		return volume
	case LQTByCombined:
		return p.Points.Mul(combinedPointsWeight).Add(volume.Mul(combinedVolumeWeight))
	default:
		return p.Points
	}
}

// RankLQT scores participants and sorts them by descending score. Ties keep their input
// order. Ranks are 1-based positions in the result. The input slice is not modified.
func RankLQT(participants []domain.LQTParticipant, method LQTMethod) []domain.RankedParticipant {
	ranked := lo.Map(participants, func(p domain.LQTParticipant, _ int) domain.RankedParticipant {
		return domain.RankedParticipant{LQTParticipant: p, Score: LQTScore(p, method)}
	})

	slices.SortStableFunc(ranked, func(a, b domain.RankedParticipant) int {
		return b.Score.Cmp(a.Score)
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
