package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat64MatrixSetAdd(t *testing.T) {
	m := NewFloat64Matrix(uint32(2), uint32(2))

	m.Set(0, 1, 1.5)
	m.Add(0, 1, 1.0)
	m.AddScalar(0.25)

	assert.Equal(t, 2.75, m.Get(0, 1))
	assert.Equal(t, 0.25, m.Get(1, 0))
}

func TestFloat64MatrixRawRow(t *testing.T) {
	m := NewFloat64Matrix(uint32(2), uint32(3))

	row := m.RawRow(1)
	row[2] = 7.0

	assert.Len(t, row, 3)
	assert.Equal(t, 7.0, m.Get(1, 2))
	assert.PanicsWithValue(t, ErrIndexOutOfRange, func() { m.RawRow(2) })
}
