package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_ZeroForSamePoint(t *testing.T) {
	points := []Point{
		{Lat: 0, Lng: 0},
		{Lat: 17.385044, Lng: 78.486671},
		{Lat: -89.9, Lng: 179.9},
	}

	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p, p))
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Point{Lat: 17.385044, Lng: 78.486671}
	b := Point{Lat: 17.4, Lng: 78.5}

	assert.Equal(t, Distance(a, b), Distance(b, a))
}

func TestDistance_OneHundredthDegreeLngAtEquator(t *testing.T) {
	// 赤道上 0.01° 经度约 1113 米
	a := Point{Lat: 0, Lng: 0}
	b := Point{Lat: 0, Lng: 0.01}

	d := Distance(a, b)
	assert.InDelta(t, 1113.0, d, 1.0)
}

func TestDistance_AntimeridianWraparound(t *testing.T) {
	// 179.99° 和 -179.99° 实际只差 0.02°
	a := Point{Lat: 0, Lng: 179.99}
	b := Point{Lat: 0, Lng: -179.99}

	d := Distance(a, b)
	assert.InDelta(t, 2226.0, d, 2.0)
}

func TestDistance_NaNPropagates(t *testing.T) {
	a := Point{Lat: math.NaN(), Lng: 0}
	b := Point{Lat: 0, Lng: 0}

	assert.True(t, math.IsNaN(Distance(a, b)))
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(0, 0))
	assert.True(t, ValidCoordinate(90, 180))
	assert.True(t, ValidCoordinate(-90, -180))
	assert.False(t, ValidCoordinate(90.01, 0))
	assert.False(t, ValidCoordinate(0, -180.01))
	assert.False(t, ValidCoordinate(math.NaN(), 0))
}
