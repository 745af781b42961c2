package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchCDF(t *testing.T) {
	cdf := []float64{0.2, 0.5, 1.0}

	cases := []struct {
		u    float64
		want uint32
	}{
		{0.0, 0},
		{0.1999, 0},
		{0.2, 1},
		{0.49, 1},
		{0.5, 2},
		{0.999999999, 2},
		{1.0, 2},
		{math.Nextafter(1.0, 2.0), 2},
		{1.5, 2},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SearchCDF(cdf, tc.u), "u=%v", tc.u)
	}
}

func TestSearchCDFSkipsEmptyTopic(t *testing.T) {
	cdf := []float64{0.3, 0.3, 1.0}

	assert.Equal(t, uint32(2), SearchCDF(cdf, 0.3))
	assert.Equal(t, uint32(0), SearchCDF(cdf, 0.29))
}

func TestSearchCDFShortfall(t *testing.T) {
	// the last entry fell short of one through rounding
	cdf := []float64{0.25, 0.5, 0.75, 0.9999999999999998}

	assert.Equal(t, uint32(3), SearchCDF(cdf, 0.9999999999999999))
}

func TestSearchCDFSingleTopic(t *testing.T) {
	assert.Equal(t, uint32(0), SearchCDF([]float64{1.0}, 0.7))
	assert.Equal(t, uint32(0), SearchCDF([]float64{1.0}, 1.2))
}
