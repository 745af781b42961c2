// Package checkpoint writes the aggregate count matrices of a sampler
// to text files named after a checkpoint label.
//
// Every label produces three files:
//
//	<label>_CDWT.txt  word-topic rows repeated once per document
//	<label>_CWT.txt   word-topic matrix
//	<label>_CDT.txt   document-topic matrix
//
// Values are printed with three decimals and a trailing space after
// every field, which is the layout downstream plotting scripts read.
package checkpoint

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AnnaFriedlander/LDA-for-FITS/matrix"
	"github.com/AnnaFriedlander/LDA-for-FITS/sstable"
)

// Snapshot is a read-only view of the sampler aggregates at one label
type Snapshot struct {
	Label     string
	WordNames []string
	DocNames  []string
	WordTopic *matrix.Float64Matrix // V x T, smoothed
	DocTopic  *matrix.Float64Matrix // D x T, smoothed
}

// WriteError is returned when a checkpoint file cannot be opened or
// written. It never invalidates the in-memory model.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("checkpoint %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Path returns the file a label/kind pair is written to, kind is one
// of CDWT, CWT, CDT or state
func (w *Writer) Path(label, kind string) string {
	return filepath.Join(w.Dir, label+"_"+kind+".txt")
}

// Write serializes the snapshot to its three files. Each file is
// attempted independently, all failures are returned joined.
func (w *Writer) Write(s *Snapshot) error {
	return errors.Join(
		w.writeFile(w.Path(s.Label, "CDWT"), func(out io.Writer) { writeDocWordTopic(out, s) }),
		w.writeFile(w.Path(s.Label, "CWT"), func(out io.Writer) { writeWordTopic(out, s) }),
		w.writeFile(w.Path(s.Label, "CDT"), func(out io.Writer) { writeDocTopic(out, s) }),
	)
}

// WriteState serializes the token-topic tensor as sparse triplets so a
// later run can resume from it
func (w *Writer) WriteState(label string, dwt sstable.Uint32Table) error {
	fn := w.Path(label, "state")
	if err := sstable.Uint32Serialize(dwt, fn); err != nil {
		return &WriteError{Path: fn, Err: err}
	}
	return nil
}

func (w *Writer) writeFile(fn string, body func(io.Writer)) error {
	f, err := os.Create(fn)
	if err != nil {
		return &WriteError{Path: fn, Err: err}
	}
	bw := bufio.NewWriter(f)
	body(bw)
	if err := bw.Flush(); err != nil {
		f.Close()
		return &WriteError{Path: fn, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: fn, Err: err}
	}
	return nil
}

func writeTopics(out io.Writer, topicNum uint32) {
	fmt.Fprint(out, "topics: ")
	for t := uint32(0); t < topicNum; t += 1 {
		fmt.Fprintf(out, "%d ", t)
	}
	fmt.Fprint(out, "\n")
}

func writeRow(out io.Writer, name string, row []float64) {
	fmt.Fprintf(out, "%s ", name)
	for _, val := range row {
		fmt.Fprintf(out, "%.3f ", val)
	}
	fmt.Fprint(out, "\n")
}

// the per-document blocks repeat the word-topic rows, it is kept for
// compatibility with existing readers of the CDWT file
func writeDocWordTopic(out io.Writer, s *Snapshot) {
	vocabSize, topicNum := s.WordTopic.Shape()
	docNum := uint32(len(s.DocNames))
	fmt.Fprintf(out, "#%d %d %d %s\n", docNum, vocabSize, topicNum, s.Label)
	for d := uint32(0); d < docNum; d += 1 {
		fmt.Fprintf(out, "# DOC #%d: %s \n", d, s.DocNames[d])
		writeTopics(out, topicNum)
		for v := uint32(0); v < vocabSize; v += 1 {
			writeRow(out, s.WordNames[v], s.WordTopic.RawRow(v))
		}
	}
}

func writeWordTopic(out io.Writer, s *Snapshot) {
	vocabSize, topicNum := s.WordTopic.Shape()
	fmt.Fprintf(out, "#%d %d %s\n", vocabSize, topicNum, s.Label)
	writeTopics(out, topicNum)
	for v := uint32(0); v < vocabSize; v += 1 {
		writeRow(out, s.WordNames[v], s.WordTopic.RawRow(v))
	}
}

func writeDocTopic(out io.Writer, s *Snapshot) {
	docNum, topicNum := s.DocTopic.Shape()
	fmt.Fprintf(out, "#%d %d %s\n", docNum, topicNum, s.Label)
	writeTopics(out, topicNum)
	for d := uint32(0); d < docNum; d += 1 {
		writeRow(out, s.DocNames[d], s.DocTopic.RawRow(d))
	}
}
