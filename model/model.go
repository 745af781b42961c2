package model

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/AnnaFriedlander/LDA-for-FITS/checkpoint"
	"github.com/AnnaFriedlander/LDA-for-FITS/corpus"
	"github.com/AnnaFriedlander/LDA-for-FITS/matrix"
	"github.com/AnnaFriedlander/LDA-for-FITS/sstable"
)

var constructors = make(map[string]ModelCtor)

var (
	ErrNumericDegeneracy = errors.New("model: smoothing constants must be strictly positive")
	ErrNoTopics          = errors.New("model: number of topics must be at least 1")
)

// the common interface the LDA samplers follow
type Model interface {
	// randomly assign a topic to every token
	Init()
	// restore token topic assignments written by a previous run
	LoadState(fn string) error
	// run iter sweeps, checkpointing along the way
	Train(iter int)
	// resample every token once
	Sweep()
	// get word-topic distribution
	Phi() *matrix.Float64Matrix
	// get doc-topic distribution
	Theta() *matrix.Float64Matrix
	// view of the smoothed aggregates under label
	Snapshot(label string) *checkpoint.Snapshot
	// verify the count tables agree with each other and the corpus
	CheckInvariants() error
}

// Checkpointer persists snapshots, *checkpoint.Writer is the
// file based implementation
type Checkpointer interface {
	Write(s *checkpoint.Snapshot) error
	WriteState(label string, dwt sstable.Uint32Table) error
}

type Options struct {
	TopicNum uint32
	Alpha    float64 // document topic mixture hyperparameter
	Beta     float64 // topic word mixture hyperparameter
	// the only random source of a run, shared by initialization
	// and every resampling draw
	Rand *rand.Rand
	// nil disables checkpointing
	Checkpointer Checkpointer
	// also write the token-topic tensor at every checkpoint
	SaveState bool
}

// new LDA sampler should register itself using this function
func Register(modelType string, m ModelCtor) {
	constructors[modelType] = m
}

type ModelCtor func(dat *corpus.Corpus, opts Options) (Model, error)

func GetModel(modelType string) (ModelCtor, error) {
	if _, ok := constructors[modelType]; !ok {
		return nil, fmt.Errorf("model %s not registered", modelType)
	}
	return constructors[modelType], nil
}
