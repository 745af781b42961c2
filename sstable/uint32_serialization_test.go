package sstable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnaFriedlander/LDA-for-FITS/matrix"
)

func TestUint32SerializeDenseToSparse(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "state.txt")

	dense := matrix.NewUint32Matrix(uint32(3), uint32(2))
	dense.Set(0, 1, 4)
	dense.Set(2, 0, 7)
	require.NoError(t, Uint32Serialize(dense, fn))

	raw, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "3,2\n0,1,4\n2,0,7\n", string(raw))

	sparse := NewSortedMap(uint32(3), uint32(2))
	require.NoError(t, Uint32Deserialize(fn, sparse))
	assert.Equal(t, uint32(4), sparse.Get(0, 1))
	assert.Equal(t, uint32(7), sparse.Get(2, 0))
	assert.Equal(t, uint32(0), sparse.Get(1, 0))
}

func TestUint32DeserializeShapeMismatch(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "state.txt")
	require.NoError(t, os.WriteFile(fn, []byte("4,2\n0,0,1\n"), 0644))

	err := Uint32Deserialize(fn, matrix.NewUint32Matrix(uint32(3), uint32(2)))
	assert.Error(t, err)
}

func TestUint32DeserializeOutOfRange(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "state.txt")
	require.NoError(t, os.WriteFile(fn, []byte("3,2\n3,0,1\n"), 0644))

	err := Uint32Deserialize(fn, matrix.NewUint32Matrix(uint32(3), uint32(2)))
	assert.Error(t, err)
}

func TestUint32DeserializeMissingFile(t *testing.T) {
	err := Uint32Deserialize(filepath.Join(t.TempDir(), "nope.txt"),
		matrix.NewUint32Matrix(uint32(1), uint32(1)))
	assert.Error(t, err)
}
