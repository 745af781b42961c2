package model

import "sort"

// SearchCDF draws a topic from a categorical distribution given by its
// cumulative array cdf and a uniform u in [0, 1). It returns the first
// index whose cumulative value exceeds u, so topic i owns the interval
// [cdf[i-1], cdf[i]) and a zero-mass topic is never chosen. This is an
// upper bound, not the lower bound "smallest i with cdf[i] >= u": the
// two only disagree when u equals a cumulative value exactly, where
// u == cdf[i] selects i+1 (cdf [0.2 0.5 1.0], u 0.2 gives 1). When
// rounding leaves cdf[len-1] at or below u the last index is returned.
func SearchCDF(cdf []float64, u float64) uint32 {
	i := sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
	if i == len(cdf) {
		i = len(cdf) - 1
	}
	return uint32(i)
}
