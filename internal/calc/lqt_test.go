package calc

import (
	"testing"

	"github.com/mtlprog/tokenomics/internal/domain"
)

func TestRankLQTStableOnTies(t *testing.T) {
	participants := []domain.LQTParticipant{
		{Address: "A", Points: d("5")},
		{Address: "B", Points: d("10")},
		{Address: "C", Points: d("5")},
	}

	ranked := RankLQT(participants, LQTByPoints)

	want := []struct {
		addr string
		rank int
	}{{"B", 1}, {"A", 2}, {"C", 3}}
	for i, w := range want {
		if ranked[i].Address != w.addr || ranked[i].Rank != w.rank {
			t.Errorf("ranked[%d] = %s(rank %d), want %s(rank %d)", i, ranked[i].Address, ranked[i].Rank, w.addr, w.rank)
		}
	}
	if participants[0].Address != "A" || participants[1].Address != "B" {
		t.Error("RankLQT modified its input")
	}
}

func TestLQTScore(t *testing.T) {
	p := domain.LQTParticipant{Address: "A", Points: d("100"), VolumeIn: d("30"), VolumeOut: d("20")}

	tests := []struct {
		method LQTMethod
		want   string
	}{
		{LQTByPoints, "100"},
		{LQTByVolume, "50"},
		{LQTByCombined, "85"},
		{LQTMethod("unknown"), "100"},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			if got := LQTScore(p, tt.method); !got.Equal(d(tt.want)) {
				t.Errorf("LQTScore(%s) = %s, want %s", tt.method, got, tt.want)
			}
		})
	}
}

func TestRankLQTByVolume(t *testing.T) {
	ranked := RankLQT([]domain.LQTParticipant{
		{Address: "low", Points: d("90"), VolumeIn: d("1"), VolumeOut: d("1")},
		{Address: "high", Points: d("1"), VolumeIn: d("40"), VolumeOut: d("60")},
	}, LQTByVolume)

	if ranked[0].Address != "high" || !ranked[0].Score.Equal(d("100")) {
		t.Errorf("first = %s (score %s), want high (score 100)", ranked[0].Address, ranked[0].Score)
	}
}

func TestRankLQTEmpty(t *testing.T) {
	if got := RankLQT(nil, LQTByCombined); len(got) != 0 {
		t.Errorf("RankLQT(nil) returned %d participants, want 0", len(got))
	}
}

func TestParseLQTMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    LQTMethod
		wantErr bool
	}{
		{"", LQTByPoints, false},
		{"points", LQTByPoints, false},
		{"Volume", LQTByVolume, false},
		{" combined ", LQTByCombined, false},
		{"weighted", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLQTMethod(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLQTMethod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLQTMethod(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
