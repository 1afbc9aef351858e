package tournament

// PrizePool is a computed pool figure. Kill-based pools are projections
// from an assumed average kill count, so Estimated distinguishes them from
// the exact rank-based and fixed figures; callers must not present an
// estimate as a guaranteed payout.
type PrizePool struct {
	Amount    float64
	Estimated bool
}

// DefaultAvgKillsEstimate is the policy constant used when no configured
// value is supplied for kill-based pool projections.
const DefaultAvgKillsEstimate = 3

// PrizePool computes the total pool for the current roster. avgKills is the
// assumed kills-per-participant used for kill-based projections; values
// below 1 fall back to DefaultAvgKillsEstimate. An unknown prize type
// yields a zero pool; the second return value is false in that case so the
// caller can log the data-integrity problem.
func (t Tournament) PrizePool(avgKills int) (PrizePool, bool) {
	if avgKills < 1 {
		avgKills = DefaultAvgKillsEstimate
	}

	switch t.Prize.Type {
	case PrizeKillBased:
		estimatedKills := float64(t.ParticipantCount() * avgKills)
		return PrizePool{
			Amount:    estimatedKills*t.Prize.PerKill + t.Prize.TopKillerBonus,
			Estimated: true,
		}, true
	case PrizeRankBased:
		return PrizePool{Amount: t.Prize.First + t.Prize.Second + t.Prize.Third}, true
	case PrizeFixed:
		return PrizePool{Amount: t.Prize.WinnersAmount}, true
	default:
		return PrizePool{}, false
	}
}

// Revenue is the organiser-side money breakdown for a tournament.
type Revenue struct {
	Collection   float64
	PrizePool    float64
	NetProfit    float64
	ProfitMargin float64
	Estimated    bool
}

// Revenue computes entry-fee collection against the prize pool. The margin
// is a percentage of collection and zero when nothing was collected.
func (t Tournament) Revenue(avgKills int) Revenue {
	pool, _ := t.PrizePool(avgKills)
	collection := float64(t.ParticipantCount()) * t.EntryFee

	rev := Revenue{
		Collection: collection,
		PrizePool:  pool.Amount,
		NetProfit:  collection - pool.Amount,
		Estimated:  pool.Estimated,
	}
	if collection > 0 {
		rev.ProfitMargin = rev.NetProfit / collection * 100
	}
	return rev
}
