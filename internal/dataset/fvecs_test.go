package dataset

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFvecsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.fvecs")
	vecs := [][]float32{
		{1.5, -2.25, 0},
		{0.001, 42.0, -0.5},
	}

	require.NoError(t, WriteFvecs(path, vecs))

	got, err := ReadFvecs(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range vecs {
		assert.Equal(t, vecs[i], got[i])
	}
}

func TestIvecsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neighbors.ivecs")
	vecs := [][]int32{
		{10, 20, 30, 40},
		{0, 1, 2, 3},
	}

	require.NoError(t, WriteIvecs(path, vecs))

	got, err := ReadIvecs(path)
	require.NoError(t, err)
	assert.Equal(t, vecs, got)
}

func TestReadFvecs_TruncatedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.fvecs")

	// Header promises 4 floats but only 2 follow.
	var raw []byte
	raw = binary.LittleEndian.AppendUint32(raw, 4)
	raw = binary.LittleEndian.AppendUint32(raw, 0)
	raw = binary.LittleEndian.AppendUint32(raw, 0)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	_, err := ReadFvecs(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestReadFvecs_InconsistentDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.fvecs")
	require.NoError(t, WriteFvecs(path, [][]float32{{1, 2}, {1, 2, 3}}))

	_, err := ReadFvecs(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent dimension")
}

func TestReadFvecs_InvalidDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.fvecs")
	var raw []byte
	raw = binary.LittleEndian.AppendUint32(raw, 0)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	_, err := ReadFvecs(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dimension")
}

func TestReadFvecs_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fvecs")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := ReadFvecs(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no vectors")
}

func TestReadFvecs_MissingFile(t *testing.T) {
	_, err := ReadFvecs(filepath.Join(t.TempDir(), "absent.fvecs"))
	assert.Error(t, err)
}
