package query

import (
	"slices"
)

// Stats summarizes a filtered list. RateAverage is the midpoint of RateMin
// and RateMax, the figure the certification office reports as "moyenne";
// it is not the arithmetic mean.
type Stats struct {
	Count       int
	TotalWeight float64
	RateMin     float64
	RateMax     float64
	RateAverage float64
}

// Aggregate computes Stats over records. Missing rates count as 0.
func Aggregate[T any](records []T, cols Columns[T]) Stats {
	st := Stats{Count: len(records)}
	if len(records) == 0 {
		return st
	}

	for i, r := range records {
		if cols.Weight != nil {
			st.TotalWeight += cols.Weight(r)
		}
		rate := 0.0
		if cols.Rate != nil {
			rate = cols.Rate(r)
		}
		if i == 0 || rate < st.RateMin {
			st.RateMin = rate
		}
		if i == 0 || rate > st.RateMax {
			st.RateMax = rate
		}
	}
	st.RateAverage = (st.RateMin + st.RateMax) / 2
	return st
}

// Point is one bar of a chart.
type Point struct {
	Label string
	Value float64
}

// CountBy counts records per label, in order of first appearance.
func CountBy[T any](records []T, label func(T) string) []Point {
	return SumBy(records, label, func(T) float64 { return 1 })
}

// SumBy sums value per label, in order of first appearance.
func SumBy[T any](records []T, label func(T) string, value func(T) float64) []Point {
	index := map[string]int{}
	var out []Point
	for _, r := range records {
		l := label(r)
		i, ok := index[l]
		if !ok {
			i = len(out)
			index[l] = i
			out = append(out, Point{Label: l})
		}
		out[i].Value += value(r)
	}
	return out
}

// Series evaluates chart c over records.
func Series[T any](records []T, c Chart[T]) []Point {
	if c.Value == nil {
		return CountBy(records, c.Label)
	}
	return SumBy(records, c.Label, c.Value)
}

// Recent returns the n records with the latest dates, newest first.
func Recent[T any](records []T, cols Columns[T], n int) []T {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		da, db := cols.Date(a), cols.Date(b)
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
