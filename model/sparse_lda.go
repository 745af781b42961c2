package model

import (
	"github.com/AnnaFriedlander/LDA-for-FITS/corpus"
	"github.com/AnnaFriedlander/LDA-for-FITS/sstable"
)

func init() {
	Register("sparselda", NewSparseLDA)
}

// NewSparseLDA creates a LDA instance whose cell-topic counts live in a
// sstable.SortedMap, so memory grows with the number of distinct
// (document, word, topic) triples instead of D*V*T. Sampling order and
// random draws are the same as NewLDA, a run with the same seed gives
// the same result.
func NewSparseLDA(dat *corpus.Corpus, opts Options) (Model, error) {
	cells, err := cellNum(dat)
	if err != nil {
		return nil, err
	}
	if opts.TopicNum == 0 {
		return nil, ErrNoTopics
	}
	return newLDA(dat, sstable.NewSortedMap(cells, opts.TopicNum), opts)
}
