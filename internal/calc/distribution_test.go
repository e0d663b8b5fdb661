package calc

import "testing"

func TestDistributionReconciles(t *testing.T) {
	b := Distribution(d("1000000000"), d("400000000"), d("250000000"), d("150000000"), DefaultTolerance)

	want := []struct {
		name       string
		amount     string
		percentage string
	}{
		{CategoryStaked, "400000000", "40"},
		{CategoryDexLiquidity, "250000000", "25"},
		{CategoryCommunityPool, "150000000", "15"},
		{CategoryCirculating, "200000000", "20"},
	}

	if len(b.Shares) != len(want) {
		t.Fatalf("shares = %d, want %d", len(b.Shares), len(want))
	}
	percentSum := d("0")
	for i, w := range want {
		got := b.Shares[i]
		if got.Name != w.name {
			t.Errorf("share[%d].Name = %q, want %q", i, got.Name, w.name)
		}
		if !got.Amount.Equal(d(w.amount)) {
			t.Errorf("%s amount = %s, want %s", w.name, got.Amount, w.amount)
		}
		if !got.Percentage.Equal(d(w.percentage)) {
			t.Errorf("%s percentage = %s, want %s", w.name, got.Percentage, w.percentage)
		}
		percentSum = percentSum.Add(got.Percentage)
	}

	if !Reconciles(d("100"), percentSum, DefaultTolerance) {
		t.Errorf("percentages sum to %s, want 100", percentSum)
	}
	if !b.Reconciled {
		t.Error("Reconciled = false, want true")
	}
	if !b.Sum.Equal(d("1000000000")) {
		t.Errorf("Sum = %s, want 1000000000", b.Sum)
	}
}

func TestDistributionZeroSupply(t *testing.T) {
	b := Distribution(d("0"), d("0"), d("0"), d("0"), DefaultTolerance)
	for _, s := range b.Shares {
		if !s.Percentage.IsZero() {
			t.Errorf("%s percentage = %s, want 0", s.Name, s.Percentage)
		}
	}
}

func TestDistributionNegativeCirculating(t *testing.T) {
	b := Distribution(d("100"), d("80"), d("30"), d("0"), DefaultTolerance)
	circ, ok := b.Share(CategoryCirculating)
	if !ok {
		t.Fatal("circulating share missing")
	}
	if !circ.Amount.Equal(d("-10")) {
		t.Errorf("circulating = %s, want -10", circ.Amount)
	}
	if !circ.Percentage.Equal(d("-10")) {
		t.Errorf("circulating percentage = %s, want -10", circ.Percentage)
	}
}

func TestNewBreakdownDetectsMismatch(t *testing.T) {
	b := NewBreakdown(d("100"), []Part{
		{Name: "a", Amount: d("60")},
		{Name: "b", Amount: d("39.5")},
	}, d("0"))

	if b.Reconciled {
		t.Error("Reconciled = true, want false for a 0.5 gap")
	}
	if !b.Discrepancy.Equal(d("0.5")) {
		t.Errorf("Discrepancy = %s, want 0.5", b.Discrepancy)
	}

	b = NewBreakdown(d("100"), []Part{{Name: "a", Amount: d("60")}, {Name: "b", Amount: d("39.995")}}, d("0.01"))
	if !b.Reconciled {
		t.Error("Reconciled = false, want true within tolerance")
	}
}

func TestSplitByRatio(t *testing.T) {
	shares := SplitByRatio(d("1000"), []Part{
		{Name: "PEN/USDC", Amount: d("0.6")},
		{Name: "PEN/ETH", Amount: d("0.4")},
	})

	if len(shares) != 2 {
		t.Fatalf("shares = %d, want 2", len(shares))
	}
	if !shares[0].Amount.Equal(d("600")) || !shares[0].Percentage.Equal(d("60")) {
		t.Errorf("first share = %s (%s%%), want 600 (60%%)", shares[0].Amount, shares[0].Percentage)
	}
	if !shares[1].Amount.Equal(d("400")) || !shares[1].Percentage.Equal(d("40")) {
		t.Errorf("second share = %s (%s%%), want 400 (40%%)", shares[1].Amount, shares[1].Percentage)
	}
}
