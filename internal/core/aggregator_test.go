package core

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAggregator_Accumulate(t *testing.T) {
	agg := NewAggregator()

	for _, step := range []struct {
		key   string
		value uint64
	}{
		{"a\tx", 1},
		{"b\tz", 5},
		{"a\tx", 2},
		{"a\ty", 0},
		{"b\tz", 10},
	} {
		if err := agg.Accumulate(step.key, step.value); err != nil {
			t.Fatalf("Accumulate(%q, %d) error = %v", step.key, step.value, err)
		}
	}

	want := []Entry{
		{Key: "a\tx", Sum: 3},
		{Key: "b\tz", Sum: 15},
		{Key: "a\ty", Sum: 0},
	}
	if diff := cmp.Diff(want, agg.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
	if agg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", agg.Len())
	}

	if sum, ok := agg.Sum("b\tz"); !ok || sum != 15 {
		t.Errorf("Sum(b) = %d, %v, want 15, true", sum, ok)
	}
	if _, ok := agg.Sum("missing"); ok {
		t.Error("Sum(missing) reported a key that was never accumulated")
	}
}

func TestAggregator_Overflow(t *testing.T) {
	agg := NewAggregator()
	if err := agg.Accumulate("k", math.MaxUint64); err != nil {
		t.Fatalf("first Accumulate error = %v", err)
	}

	if err := agg.Accumulate("k", 1); !errors.Is(err, ErrSumOverflow) {
		t.Fatalf("Accumulate past max error = %v, want ErrSumOverflow", err)
	}
	if sum, _ := agg.Sum("k"); sum != math.MaxUint64 {
		t.Errorf("sum changed after overflow: %d", sum)
	}
}

func TestAggregator_SumIndependentOfOrder(t *testing.T) {
	type row struct {
		key   string
		value uint64
	}
	var rows []row
	want := map[string]uint64{}
	for i := 0; i < 500; i++ {
		r := row{key: string(rune('a' + i%7)), value: uint64(i * 3)}
		rows = append(rows, r)
		want[r.key] += r.value
	}

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

		agg := NewAggregator()
		for _, r := range rows {
			if err := agg.Accumulate(r.key, r.value); err != nil {
				t.Fatalf("Accumulate error = %v", err)
			}
		}

		got := map[string]uint64{}
		for _, e := range agg.Entries() {
			got[e.Key] = e.Sum
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("trial %d sums mismatch (-want +got):\n%s", trial, diff)
		}
	}
}

func TestAggregator_Sorted(t *testing.T) {
	agg := NewAggregator()
	for _, e := range []Entry{{"low", 1}, {"high", 9}, {"tie1", 4}, {"mid", 5}, {"tie2", 4}} {
		if err := agg.Accumulate(e.Key, e.Sum); err != nil {
			t.Fatal(err)
		}
	}

	sorted := agg.Sorted()
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sum > sorted[i-1].Sum {
			t.Fatalf("sums not non-increasing at %d: %v", i, sorted)
		}
	}
	if sorted[0].Key != "high" || sorted[len(sorted)-1].Key != "low" {
		t.Errorf("unexpected order: %v", sorted)
	}

	// Sorting works on a copy.
	if agg.Entries()[0].Key != "low" {
		t.Error("Sorted() reordered the aggregator's entries")
	}
}
