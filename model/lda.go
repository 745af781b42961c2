package model

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/AnnaFriedlander/LDA-for-FITS/checkpoint"
	"github.com/AnnaFriedlander/LDA-for-FITS/corpus"
	"github.com/AnnaFriedlander/LDA-for-FITS/matrix"
	"github.com/AnnaFriedlander/LDA-for-FITS/sstable"
)

func init() {
	Register("lda", NewLDA)
}

// StateError reports a resumed token-topic tensor that does not match
// the corpus it is applied to
type StateError struct {
	Path string
	Err  error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %s: %v", e.Path, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// LDA is a collapsed gibbs sampler. The smoothing constants are folded
// into the aggregate tables once after initialization and never removed,
// so wt, dt and wts always hold pseudo-counts plus token counts.
type LDA struct {
	data      *corpus.Corpus
	alpha     float64
	beta      float64
	topicNum  uint32
	rng       *rand.Rand
	ckpt      Checkpointer
	saveState bool

	dwt   matrix.TopicCounter   // cell-topic count table, cell is d*V+v
	wt    *matrix.Float64Matrix // word-topic table, beta + counts
	dt    *matrix.Float64Matrix // doc-topic table, alpha + counts
	wts   []float64             // topic totals, V*beta + counts
	probs []float64             // conditional distribution scratch
}

// NewLDA creates a LDA instance with collapsed gibbs sampler which
// keeps the cell-topic counts in a dense table
func NewLDA(dat *corpus.Corpus, opts Options) (Model, error) {
	cells, err := cellNum(dat)
	if err != nil {
		return nil, err
	}
	if opts.TopicNum == 0 {
		return nil, ErrNoTopics
	}
	if uint64(cells)*uint64(opts.TopicNum) > math.MaxUint32 {
		return nil, fmt.Errorf("model: %d cells x %d topics is too large for the dense table, use sparselda",
			cells, opts.TopicNum)
	}
	return newLDA(dat, matrix.NewUint32Matrix(cells, opts.TopicNum), opts)
}

func cellNum(dat *corpus.Corpus) (uint32, error) {
	cells := uint64(dat.DocNum) * uint64(dat.VocabSize)
	if cells == 0 || cells > math.MaxUint32 {
		return 0, fmt.Errorf("model: corpus of %d documents and %d words is not supported",
			dat.DocNum, dat.VocabSize)
	}
	return uint32(cells), nil
}

func newLDA(dat *corpus.Corpus, dwt matrix.TopicCounter, opts Options) (*LDA, error) {
	if !(opts.Alpha > 0) || !(opts.Beta > 0) {
		return nil, fmt.Errorf("alpha %v, beta %v: %w", opts.Alpha, opts.Beta, ErrNumericDegeneracy)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &LDA{
		data:      dat,
		alpha:     opts.Alpha,
		beta:      opts.Beta,
		topicNum:  opts.TopicNum,
		rng:       rng,
		ckpt:      opts.Checkpointer,
		saveState: opts.SaveState,
		dwt:       dwt,
		wt:        matrix.NewFloat64Matrix(dat.VocabSize, opts.TopicNum),
		dt:        matrix.NewFloat64Matrix(dat.DocNum, opts.TopicNum),
		wts:       make([]float64, opts.TopicNum),
		probs:     make([]float64, opts.TopicNum),
	}, nil
}

func (this *LDA) Init() {
	// randomly assign topic to every token
	for doc := uint32(0); doc < this.data.DocNum; doc += 1 {
		for w := uint32(0); w < this.data.VocabSize; w += 1 {
			cell := this.data.Cell(doc, w)
			for i := this.data.Counts.Get(doc, w); i > 0; i -= 1 {
				k := uint32(this.rng.Intn(int(this.topicNum)))
				this.incr(doc, w, cell, k)
			}
		}
	}
	this.smooth()
}

// LoadState restores the cell-topic table from a file written by
// checkpoint.Writer.WriteState and rebuilds the aggregates from it
func (this *LDA) LoadState(fn string) error {
	if err := sstable.Uint32Deserialize(fn, this.dwt); err != nil {
		return &StateError{Path: fn, Err: err}
	}

	for doc := uint32(0); doc < this.data.DocNum; doc += 1 {
		for w := uint32(0); w < this.data.VocabSize; w += 1 {
			cell := this.data.Cell(doc, w)
			total := uint64(0)
			for k := uint32(0); k < this.topicNum; k += 1 {
				n := this.dwt.Get(cell, k)
				total += uint64(n)
				this.wt.Add(w, k, float64(n))
				this.dt.Add(doc, k, float64(n))
				this.wts[k] += float64(n)
			}
			if raw := uint64(this.data.Counts.Get(doc, w)); total != raw {
				return &StateError{Path: fn, Err: fmt.Errorf(
					"document %s word %s holds %d tokens, corpus has %d",
					this.data.DocNames[doc], this.data.WordNames[w], total, raw)}
			}
		}
	}
	this.smooth()
	return nil
}

// add the Dirichlet pseudo-counts to the aggregate tables
func (this *LDA) smooth() {
	this.dt.AddScalar(this.alpha)
	this.wt.AddScalar(this.beta)
	for k := range this.wts {
		this.wts[k] += float64(this.data.VocabSize) * this.beta
	}
}

func (this *LDA) incr(doc, w, cell, k uint32) {
	this.dwt.Incr(cell, k, uint32(1))
	this.wt.Add(w, k, 1)
	this.dt.Add(doc, k, 1)
	this.wts[k] += 1
}

func (this *LDA) decr(doc, w, cell, k uint32) {
	this.dwt.Decr(cell, k, uint32(1))
	this.wt.Add(w, k, -1)
	this.dt.Add(doc, k, -1)
	this.wts[k] -= 1
}

func (this *LDA) Train(iter int) {
	start := time.Now()
	every := iter / 10
	if every < 1 {
		every = 1
	}

	for iterIdx := 0; iterIdx < iter; iterIdx += 1 {
		if iterIdx%10 == 0 {
			log.Infof("iter %5d", iterIdx)
			if log.V(1) {
				log.Infof("iter %5d, likelihood %f", iterIdx, this.Likelihood())
			}
		}
		if iterIdx%every == 0 {
			this.checkpoint(fmt.Sprintf("iter%d", iterIdx))
		}
		this.Sweep()
	}

	log.Infof("gibbs sampling done in %s", time.Since(start))
	this.checkpoint("final")
}

// Sweep resamples every token once. Within a cell the topics are
// visited in order and the number of tokens to resample for a topic is
// read once on entry: a token drawn back into the same topic does not
// extend the loop, a token moved to a later topic is visited again
// when that topic comes up.
func (this *LDA) Sweep() {
	for doc := uint32(0); doc < this.data.DocNum; doc += 1 {
		for w := uint32(0); w < this.data.VocabSize; w += 1 {
			if this.data.Counts.Get(doc, w) == 0 {
				continue
			}
			cell := this.data.Cell(doc, w)
			for k := uint32(0); k < this.topicNum; k += 1 {
				n := this.dwt.Get(cell, k)
				for g := uint32(0); g < n; g += 1 {
					this.resample(doc, w, cell, k)
				}
			}
		}
	}
}

// resample draws a new topic for one token of cell currently assigned
// topic k and returns it
func (this *LDA) resample(doc, w, cell, k uint32) uint32 {
	// remove the token so it does not condition on itself
	this.decr(doc, w, cell, k)

	cdf := floats.CumSum(this.probs, this.conditional(doc, w))
	zi := SearchCDF(cdf, this.rng.Float64())

	this.incr(doc, w, cell, zi)
	return zi
}

// conditional fills the scratch buffer with the normalized probability
// of every topic for a token of word w in document doc
func (this *LDA) conditional(doc, w uint32) []float64 {
	wordRow := this.wt.RawRow(w)
	docRow := this.dt.RawRow(doc)
	for j := range this.probs {
		this.probs[j] = wordRow[j] / this.wts[j] * docRow[j]
	}
	sum := floats.Sum(this.probs)
	if !(sum > 0) || math.IsInf(sum, 0) {
		panic(fmt.Errorf("document %d word %d: conditional sums to %v: %w",
			doc, w, sum, ErrNumericDegeneracy))
	}
	floats.Scale(1/sum, this.probs)
	return this.probs
}

func (this *LDA) checkpoint(label string) {
	if this.ckpt == nil {
		return
	}
	if err := this.ckpt.Write(this.Snapshot(label)); err != nil {
		log.Errorf("checkpoint %s failed: %v", label, err)
	} else {
		log.Infof("checkpoint %s written", label)
	}
	if this.saveState {
		if err := this.ckpt.WriteState(label, this.dwt); err != nil {
			log.Errorf("checkpoint %s state failed: %v", label, err)
		}
	}
}

// Snapshot exposes the live smoothed tables, it must not be modified
func (this *LDA) Snapshot(label string) *checkpoint.Snapshot {
	return &checkpoint.Snapshot{
		Label:     label,
		WordNames: this.data.WordNames,
		DocNames:  this.data.DocNames,
		WordTopic: this.wt,
		DocTopic:  this.dt,
	}
}

// compute the posterior point estimation of word-topic mixture
// beta (Dirichlet prior) + data -> phi
func (this *LDA) Phi() *matrix.Float64Matrix {
	phi := matrix.NewFloat64Matrix(this.data.VocabSize, this.topicNum)
	for w := uint32(0); w < this.data.VocabSize; w += 1 {
		floats.DivTo(phi.RawRow(w), this.wt.RawRow(w), this.wts)
	}
	return phi
}

// compute the posterior point estimation of document-topic mixture
// alpha (Dirichlet prior) + data -> theta
func (this *LDA) Theta() *matrix.Float64Matrix {
	theta := matrix.NewFloat64Matrix(this.data.DocNum, this.topicNum)
	for doc := uint32(0); doc < this.data.DocNum; doc += 1 {
		row := theta.RawRow(doc)
		copy(row, this.dt.RawRow(doc))
		floats.Scale(1/floats.Sum(row), row)
	}
	return theta
}

// compute the log likelihood of the training tokens
func (this *LDA) Likelihood() float64 {
	phi := this.Phi()
	theta := this.Theta()

	sum := float64(0.0)
	for doc := uint32(0); doc < this.data.DocNum; doc += 1 {
		for w := uint32(0); w < this.data.VocabSize; w += 1 {
			n := this.data.Counts.Get(doc, w)
			if n == 0 {
				continue
			}
			sum += float64(n) * math.Log(floats.Dot(phi.RawRow(w), theta.RawRow(doc)))
		}
	}
	return sum
}

// CheckInvariants recomputes every aggregate from the cell-topic table
// and compares it with the live tables
func (this *LDA) CheckInvariants() error {
	vocabSize := this.data.VocabSize
	wordSum := matrix.NewFloat64Matrix(vocabSize, this.topicNum)
	docSum := matrix.NewFloat64Matrix(this.data.DocNum, this.topicNum)

	for doc := uint32(0); doc < this.data.DocNum; doc += 1 {
		for w := uint32(0); w < vocabSize; w += 1 {
			cell := this.data.Cell(doc, w)
			total := uint64(0)
			for k := uint32(0); k < this.topicNum; k += 1 {
				n := this.dwt.Get(cell, k)
				total += uint64(n)
				wordSum.Add(w, k, float64(n))
				docSum.Add(doc, k, float64(n))
			}
			if raw := uint64(this.data.Counts.Get(doc, w)); total != raw {
				return fmt.Errorf("cell (%d, %d) holds %d tokens, corpus has %d", doc, w, total, raw)
			}
		}
	}

	for k := uint32(0); k < this.topicNum; k += 1 {
		topicSum := float64(0)
		for w := uint32(0); w < vocabSize; w += 1 {
			got := this.wt.Get(w, k)
			if got < 0 || !near(got-this.beta, wordSum.Get(w, k)) {
				return fmt.Errorf("word-topic (%d, %d) is %v, expected %v",
					w, k, got, this.beta+wordSum.Get(w, k))
			}
			topicSum += got - this.beta
		}
		if this.wts[k] < 0 || !near(this.wts[k]-float64(vocabSize)*this.beta, topicSum) {
			return fmt.Errorf("topic total %d is %v, expected %v",
				k, this.wts[k], float64(vocabSize)*this.beta+topicSum)
		}
		for doc := uint32(0); doc < this.data.DocNum; doc += 1 {
			got := this.dt.Get(doc, k)
			if got < 0 || !near(got-this.alpha, docSum.Get(doc, k)) {
				return fmt.Errorf("doc-topic (%d, %d) is %v, expected %v",
					doc, k, got, this.alpha+docSum.Get(doc, k))
			}
		}
	}
	return nil
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}
