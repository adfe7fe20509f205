package core

import (
	"math/bits"
	"slices"
)

// Entry is one group key and the running sum of its values.
type Entry struct {
	Key string
	Sum uint64
}

// Aggregator maps group keys to running sums. Keys keep their first-seen
// order. An Aggregator is owned by a single run and is not safe for
// concurrent use.
type Aggregator struct {
	index   map[string]int
	entries []Entry
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[string]int)}
}

// Accumulate adds value to the sum for key, creating the entry on first
// sight. It returns ErrSumOverflow if the sum would not fit in a uint64;
// the stored sum is left unchanged in that case.
func (a *Aggregator) Accumulate(key string, value uint64) error {
	i, ok := a.index[key]
	if !ok {
		a.index[key] = len(a.entries)
		a.entries = append(a.entries, Entry{Key: key, Sum: value})
		return nil
	}

	sum, carry := bits.Add64(a.entries[i].Sum, value, 0)
	if carry != 0 {
		return ErrSumOverflow
	}
	a.entries[i].Sum = sum
	return nil
}

// Sum returns the current sum for key and whether key has been seen.
func (a *Aggregator) Sum(key string) (uint64, bool) {
	i, ok := a.index[key]
	if !ok {
		return 0, false
	}
	return a.entries[i].Sum, true
}

// Len returns the number of distinct keys.
func (a *Aggregator) Len() int {
	return len(a.entries)
}

// Entries returns a copy of all entries in first-seen order.
func (a *Aggregator) Entries() []Entry {
	return slices.Clone(a.entries)
}

// Sorted returns a copy of all entries ordered by descending sum.
// Entries with equal sums keep their first-seen order, but callers should
// not depend on tie order.
func (a *Aggregator) Sorted() []Entry {
	out := a.Entries()
	SortBySum(out)
	return out
}

// SortBySum orders entries by descending sum in place.
func SortBySum(entries []Entry) {
	slices.SortStableFunc(entries, func(x, y Entry) int {
		switch {
		case x.Sum > y.Sum:
			return -1
		case x.Sum < y.Sum:
			return 1
		default:
			return 0
		}
	})
}
