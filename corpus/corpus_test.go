package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const small = `# image.txt 2 3
bins: b0 b1 b2 
doc0 2 0 1 
doc1 0 3 0 
`

func TestParse(t *testing.T) {
	c := &Corpus{}
	require.NoError(t, c.Parse(strings.NewReader(small)))

	assert.Equal(t, "image.txt", c.Label)
	assert.Equal(t, uint32(2), c.DocNum)
	assert.Equal(t, uint32(3), c.VocabSize)
	assert.Equal(t, []string{"b0", "b1", "b2"}, c.WordNames)
	assert.Equal(t, []string{"doc0", "doc1"}, c.DocNames)
	for v, want := range []uint32{2, 0, 1} {
		assert.Equal(t, want, c.Counts.Get(0, uint32(v)))
	}
	for v, want := range []uint32{0, 3, 0} {
		assert.Equal(t, want, c.Counts.Get(1, uint32(v)))
	}
	assert.Equal(t, uint64(3), c.Counts.RowSum(0))
	assert.Equal(t, uint64(6), c.TokenNum())
	assert.Equal(t, uint32(5), c.Cell(1, 2))
}

func TestParseCompactHeader(t *testing.T) {
	c := &Corpus{}
	require.NoError(t, c.Parse(strings.NewReader("#label 1 1\nbins: w\n\nd 4\n")))

	assert.Equal(t, "label", c.Label)
	assert.Equal(t, uint64(4), c.TokenNum())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"no hash":          "image.txt 2 3\n",
		"short header":     "# 2\n",
		"bad D":            "# image x 3\n",
		"zero vocab":       "# image 2 0\nbins:\n",
		"missing bins":     "# image 1 2\n",
		"wrong bins":       "# image 1 2\nbins: a\nd 1 1\n",
		"missing document": "# image 2 1\nbins: a\nd 1\n",
		"short document":   "# image 1 2\nbins: a b\nd 1\n",
		"long document":    "# image 1 2\nbins: a b\nd 1 2 3\n",
		"negative count":   "# image 1 2\nbins: a b\nd 1 -2\n",
		"non numeric":      "# image 1 2\nbins: a b\nd 1 x\n",
		"too many cells":   "# image 65536 65537\nbins: a\n",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			c := &Corpus{}
			err := c.Parse(strings.NewReader(input))
			var le *LoadError
			assert.True(t, errors.As(err, &le), "got %v", err)
		})
	}
}

func TestParseRejectsOversizedShape(t *testing.T) {
	// 65536*65536 cells still fit a uint64 but not the uint32 cell index
	c := &Corpus{}
	err := c.Parse(strings.NewReader("# image 65536 65536\nbins: a\n"))

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Line)
	assert.Nil(t, c.Counts)
}

func TestLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "cdw.txt")
	require.NoError(t, os.WriteFile(fn, []byte(small), 0644))

	c := &Corpus{}
	require.NoError(t, c.Load(fn))
	assert.Equal(t, uint32(2), c.DocNum)
}

func TestLoadErrorCarriesPath(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "cdw.txt")
	require.NoError(t, os.WriteFile(fn, []byte("# image 1 2\nbins: a b\nd 1\n"), 0644))

	err := (&Corpus{}).Load(fn)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, fn, le.Path)
	assert.Equal(t, 3, le.Line)
}

func TestLoadMissingFile(t *testing.T) {
	err := (&Corpus{}).Load(filepath.Join(t.TempDir(), "missing.txt"))

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
