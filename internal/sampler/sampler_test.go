package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"testing"

	"holderRaffle/internal/model"
)

type fixedSource struct {
	values []int64
	calls  int
}

func (f *fixedSource) Int(max *big.Int) (*big.Int, error) {
	if f.calls >= len(f.values) {
		return nil, fmt.Errorf("no more values")
	}
	v := f.values[f.calls]
	f.calls++
	return big.NewInt(v), nil
}

func holder(address string, total int64) model.AggregatedHolder {
	return model.AggregatedHolder{Address: address, Total: big.NewInt(total)}
}

func buildPool(n int) []model.AggregatedHolder {
	pool := make([]model.AggregatedHolder, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, holder(fmt.Sprintf("0x%040d", i), int64(i+1)))
	}
	return pool
}

func TestSelectWinnersNoDuplicatesAndLength(t *testing.T) {
	src := NewSeededSource(42)
	for _, size := range []int{1, 2, 5, 20} {
		for _, n := range []int{1, 3, 5, 20, 50} {
			winners, err := SelectWinners(buildPool(size), n, src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := n
			if size < want {
				want = size
			}
			if len(winners) != want {
				t.Fatalf("size %d n %d: expected %d winners, got %d", size, n, want, len(winners))
			}
			seen := make(map[string]struct{}, len(winners))
			for _, w := range winners {
				if _, ok := seen[w.Address]; ok {
					t.Fatalf("duplicate winner %s", w.Address)
				}
				seen[w.Address] = struct{}{}
			}
		}
	}
}

func TestSelectWinnersZeroOrEmpty(t *testing.T) {
	winners, err := SelectWinners(buildPool(5), 0, NewSeededSource(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(winners) != 0 {
		t.Fatalf("expected no winners, got %d", len(winners))
	}

	winners, err = SelectWinners(nil, 10, NewSeededSource(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(winners) != 0 {
		t.Fatalf("expected no winners, got %d", len(winners))
	}
}

func TestSelectWinnersNegativeCount(t *testing.T) {
	_, err := SelectWinners(buildPool(3), -1, NewSeededSource(1))
	if !errors.Is(err, ErrInvalidWinnerCount) {
		t.Fatalf("expected ErrInvalidWinnerCount, got %v", err)
	}
}

func TestSelectWinnersSingleHolder(t *testing.T) {
	pool := []model.AggregatedHolder{holder("A", 9)}
	for _, n := range []int{1, 2, 100} {
		winners, err := SelectWinners(pool, n, NewSeededSource(7))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(winners) != 1 || winners[0].Address != "A" {
			t.Fatalf("n %d: expected only A, got %+v", n, winners)
		}
	}
}

func TestSelectWinnersIntervalScan(t *testing.T) {
	pool := []model.AggregatedHolder{holder("A", 3), holder("B", 5), holder("C", 2)}

	// first draw: r=3 lands in B's interval [3,8)
	// second draw over A(3) C(2): r=4 lands in C's interval [3,5)
	// third draw over A(3): r=0
	src := &fixedSource{values: []int64{3, 4, 0}}
	winners, err := SelectWinners(pool, 3, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := []string{winners[0].Address, winners[1].Address, winners[2].Address}
	want := []string{"B", "C", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draw order mismatch: %v != %v", got, want)
		}
	}
}

func TestSelectWinnersBoundaries(t *testing.T) {
	pool := []model.AggregatedHolder{holder("A", 3), holder("B", 5)}

	winners, err := SelectWinners(pool, 1, &fixedSource{values: []int64{2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if winners[0].Address != "A" {
		t.Fatalf("r=2 should pick A, got %s", winners[0].Address)
	}

	winners, err = SelectWinners(pool, 1, &fixedSource{values: []int64{7}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if winners[0].Address != "B" {
		t.Fatalf("r=7 should pick B, got %s", winners[0].Address)
	}
}

func TestSelectWinnersRejectsOutOfRange(t *testing.T) {
	pool := []model.AggregatedHolder{holder("A", 3), holder("B", 5)}
	if _, err := SelectWinners(pool, 1, &fixedSource{values: []int64{8}}); err == nil {
		t.Fatalf("expected error for value equal to total weight")
	}
	if _, err := SelectWinners(pool, 1, &fixedSource{values: []int64{-1}}); err == nil {
		t.Fatalf("expected error for negative value")
	}
}

func TestSelectWinnersSkipsZeroWeight(t *testing.T) {
	pool := []model.AggregatedHolder{
		holder("zero", 0),
		{Address: "nil"},
		holder("A", 1),
	}
	winners, err := SelectWinners(pool, 3, NewSeededSource(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(winners) != 1 || winners[0].Address != "A" {
		t.Fatalf("expected only A, got %+v", winners)
	}
}

func TestSelectWinnersDoesNotMutatePool(t *testing.T) {
	pool := buildPool(10)
	before := make([]string, len(pool))
	for i, h := range pool {
		before[i] = h.Address
	}

	if _, err := SelectWinners(pool, 5, NewSeededSource(11)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, h := range pool {
		if h.Address != before[i] || h.Total.Int64() != int64(i+1) {
			t.Fatalf("pool mutated at %d: %+v", i, h)
		}
	}
}

func TestSelectWinnersHugeWeights(t *testing.T) {
	big1, _ := new(big.Int).SetString("500000000000000000000000000", 10)
	big2, _ := new(big.Int).SetString("1500000000000000000000000000", 10)
	pool := []model.AggregatedHolder{
		{Address: "A", Total: big1},
		{Address: "B", Total: big2},
	}

	src := NewSeededSource(99)
	const trials = 10000
	var firstA int
	for i := 0; i < trials; i++ {
		winners, err := SelectWinners(pool, 1, src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if winners[0].Address == "A" {
			firstA++
		}
	}

	freq := float64(firstA) / trials
	if math.Abs(freq-0.25) > 0.02 {
		t.Fatalf("frequency of A %.4f outside 0.25±0.02", freq)
	}
}

func TestSelectWinnersFirstDrawFrequency(t *testing.T) {
	pool := []model.AggregatedHolder{holder("A", 3), holder("B", 1)}

	src := NewSeededSource(2024)
	const trials = 10000
	var firstA, secondA int
	for i := 0; i < trials; i++ {
		winners, err := SelectWinners(pool, 2, src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(winners) != 2 {
			t.Fatalf("expected 2 winners, got %d", len(winners))
		}
		if winners[0].Address == "A" {
			firstA++
		}
		if winners[1].Address == "A" {
			secondA++
		}
	}

	freq := float64(firstA) / trials
	if math.Abs(freq-0.75) > 0.02 {
		t.Fatalf("first-draw frequency of A %.4f outside 0.75±0.02", freq)
	}
	if firstA+secondA != trials {
		t.Fatalf("A must be drawn exactly once per trial: %d + %d", firstA, secondA)
	}
}

func TestSeededSourceDeterministic(t *testing.T) {
	pool := buildPool(30)
	a, err := SelectWinners(pool, 10, NewSeededSource(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := SelectWinners(pool, 10, NewSeededSource(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i].Address != b[i].Address {
			t.Fatalf("seeded draws differ at %d: %s != %s", i, a[i].Address, b[i].Address)
		}
	}
}

func TestCryptoSource(t *testing.T) {
	max := big.NewInt(10)
	for i := 0; i < 100; i++ {
		v, err := CryptoSource{}.Int(max)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Sign() < 0 || v.Cmp(max) >= 0 {
			t.Fatalf("value out of range: %s", v)
		}
	}
	if _, err := (CryptoSource{}).Int(big.NewInt(0)); err == nil {
		t.Fatalf("expected error for zero bound")
	}
}

func TestShare(t *testing.T) {
	if got := Share(big.NewInt(1), big.NewInt(4)); got != 0.25 {
		t.Fatalf("share mismatch: %v", got)
	}
	if got := Share(big.NewInt(1), big.NewInt(0)); got != 0 {
		t.Fatalf("share with zero total should be 0, got %v", got)
	}
}
