package tournament

import (
	"testing"
	"time"
)

func TestPrizePoolRankBased(t *testing.T) {
	tr := fixtureTournament(time.Now())
	tr.Prize = PrizeStructure{Type: PrizeRankBased, First: 2000, Second: 1200, Third: 800}

	pool, ok := tr.PrizePool(0)
	if !ok {
		t.Fatal("expected known prize type")
	}
	if pool.Amount != 4000 {
		t.Fatalf("expected 4000, got %v", pool.Amount)
	}
	if pool.Estimated {
		t.Fatal("rank-based pool must be exact")
	}
}

func TestPrizePoolKillBased(t *testing.T) {
	tr := fixtureTournament(time.Now())
	tr.Prize = PrizeStructure{Type: PrizeKillBased, PerKill: 25, TopKillerBonus: 200}
	tr.MaxParticipants = 16
	tr.Participants = []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9", "u10"}

	pool, ok := tr.PrizePool(3)
	if !ok {
		t.Fatal("expected known prize type")
	}
	// 10 participants * 3 assumed kills * 25 per kill + 200 bonus.
	if pool.Amount != 950 {
		t.Fatalf("expected 950, got %v", pool.Amount)
	}
	if !pool.Estimated {
		t.Fatal("kill-based pool must be flagged as an estimate")
	}
}

func TestPrizePoolKillBasedDefaultsAvgKills(t *testing.T) {
	tr := fixtureTournament(time.Now())
	tr.Prize = PrizeStructure{Type: PrizeKillBased, PerKill: 10}
	tr.Participants = []string{"u1", "u2"}

	pool, ok := tr.PrizePool(0)
	if !ok {
		t.Fatal("expected known prize type")
	}
	want := float64(2*DefaultAvgKillsEstimate) * 10
	if pool.Amount != want {
		t.Fatalf("expected %v with default estimate, got %v", want, pool.Amount)
	}
}

func TestPrizePoolFixed(t *testing.T) {
	tr := fixtureTournament(time.Now())
	tr.Prize = PrizeStructure{Type: PrizeFixed, WinnersAmount: 500}

	pool, ok := tr.PrizePool(0)
	if !ok {
		t.Fatal("expected known prize type")
	}
	if pool.Amount != 500 || pool.Estimated {
		t.Fatalf("unexpected pool %+v", pool)
	}
}

func TestPrizePoolUnknownType(t *testing.T) {
	tr := fixtureTournament(time.Now())
	tr.Prize = PrizeStructure{Type: PrizeType("lottery")}

	pool, ok := tr.PrizePool(0)
	if ok {
		t.Fatal("expected unknown prize type to be reported")
	}
	if pool.Amount != 0 {
		t.Fatalf("expected zero pool, got %v", pool.Amount)
	}
}

func TestRevenue(t *testing.T) {
	tr := fixtureTournament(time.Now())
	tr.EntryFee = 100
	tr.MaxParticipants = 16
	tr.Prize = PrizeStructure{Type: PrizeRankBased, First: 400, Second: 200, Third: 100}
	tr.Participants = []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9", "u10"}

	rev := tr.Revenue(0)
	if rev.Collection != 1000 {
		t.Fatalf("expected collection 1000, got %v", rev.Collection)
	}
	if rev.PrizePool != 700 {
		t.Fatalf("expected pool 700, got %v", rev.PrizePool)
	}
	if rev.NetProfit != 300 {
		t.Fatalf("expected profit 300, got %v", rev.NetProfit)
	}
	if rev.ProfitMargin != 30 {
		t.Fatalf("expected margin 30, got %v", rev.ProfitMargin)
	}
	if rev.Estimated {
		t.Fatal("rank-based revenue must be exact")
	}
}

func TestRevenueZeroCollection(t *testing.T) {
	tr := fixtureTournament(time.Now())
	tr.EntryFee = 0
	tr.Prize = PrizeStructure{Type: PrizeFixed, WinnersAmount: 100}

	rev := tr.Revenue(0)
	if rev.ProfitMargin != 0 {
		t.Fatalf("expected zero margin with no collection, got %v", rev.ProfitMargin)
	}
	if rev.NetProfit != -100 {
		t.Fatalf("expected -100 profit, got %v", rev.NetProfit)
	}
}
