package corpus

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"

	"github.com/AnnaFriedlander/LDA-for-FITS/matrix"
)

// Corpus is a document-word count matrix together with the labels
// of its rows and columns
type Corpus struct {
	Label     string
	VocabSize uint32
	DocNum    uint32
	WordNames []string
	DocNames  []string
	// [d, v]-th element is the number of tokens of word v in document d
	Counts *matrix.Uint32Matrix
}

// LoadError is returned for a missing file, a malformed header or a
// document row that does not carry exactly VocabSize counts.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("corpus %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("corpus %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// flattened index of the (doc, word) cell
func (this *Corpus) Cell(doc, word uint32) uint32 {
	return doc*this.VocabSize + word
}

// total number of tokens in the corpus
func (this *Corpus) TokenNum() uint64 {
	sum := uint64(0)
	for d := uint32(0); d < this.DocNum; d += 1 {
		sum += this.Counts.RowSum(d)
	}
	return sum
}

// load training data from file, the file format should be like:
//
//	# <label> <D> <V>
//	bins: <word_1> ... <word_V>
//	<doc_1> <count_1_1> ... <count_1_V>
//	...
//
// all fields are whitespace delimited, counts are non-negative integers
func (this *Corpus) Load(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		return &LoadError{Path: fn, Err: err}
	}
	defer f.Close()

	if err := this.Parse(f); err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = fn
		}
		return err
	}

	log.Infof("number of documents %d", this.DocNum)
	log.Infof("vocabulary size %d", this.VocabSize)
	log.Infof("number of tokens %d", this.TokenNum())
	return nil
}

// Parse reads a corpus from r, see Load for the format
func (this *Corpus) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	lineIdx := 0
	next := func() ([]string, bool) {
		for scanner.Scan() {
			lineIdx += 1
			if fields := strings.Fields(scanner.Text()); len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}
	fail := func(format string, args ...interface{}) error {
		return &LoadError{Line: lineIdx, Err: fmt.Errorf(format, args...)}
	}

	// header: "# <label> <D> <V>"
	header, ok := next()
	if !ok {
		return fail("missing header")
	}
	if header[0] == "#" {
		header = header[1:]
	} else if strings.HasPrefix(header[0], "#") {
		header[0] = strings.TrimPrefix(header[0], "#")
	} else {
		return fail("header must start with '#': %q", scanner.Text())
	}
	if len(header) < 3 {
		return fail("malformed header %q", scanner.Text())
	}
	docNum, err := strconv.ParseUint(header[len(header)-2], 10, 32)
	if err != nil {
		return fail("bad document number: %v", err)
	}
	vocabSize, err := strconv.ParseUint(header[len(header)-1], 10, 32)
	if err != nil {
		return fail("bad vocabulary size: %v", err)
	}
	if docNum == 0 || vocabSize == 0 {
		return fail("empty corpus: %d documents, %d words", docNum, vocabSize)
	}
	// cells are indexed d*V+v in uint32
	if docNum*vocabSize > math.MaxUint32 {
		return fail("%d documents x %d words exceeds %d cells", docNum, vocabSize, uint64(math.MaxUint32))
	}
	this.Label = strings.Join(header[:len(header)-2], " ")
	this.DocNum = uint32(docNum)
	this.VocabSize = uint32(vocabSize)

	// word labels: "bins: <word_1> ... <word_V>"
	bins, ok := next()
	if !ok {
		return fail("missing word labels")
	}
	if len(bins)-1 != int(this.VocabSize) {
		return fail("expected %d word labels, found %d", this.VocabSize, len(bins)-1)
	}
	this.WordNames = append([]string(nil), bins[1:]...)

	this.DocNames = make([]string, 0, this.DocNum)
	this.Counts = matrix.NewUint32Matrix(this.DocNum, this.VocabSize)
	for d := uint32(0); d < this.DocNum; d += 1 {
		doc, ok := next()
		if !ok {
			return fail("expected %d documents, found %d", this.DocNum, d)
		}
		if len(doc)-1 != int(this.VocabSize) {
			return fail("document %s: expected %d counts, found %d",
				doc[0], this.VocabSize, len(doc)-1)
		}
		this.DocNames = append(this.DocNames, doc[0])
		for v, field := range doc[1:] {
			count, err := strconv.ParseUint(field, 10, 32)
			if err != nil {
				return fail("document %s: bad count %q", doc[0], field)
			}
			this.Counts.Set(d, uint32(v), uint32(count))
		}
	}

	if err := scanner.Err(); err != nil {
		return &LoadError{Line: lineIdx, Err: err}
	}
	return nil
}
