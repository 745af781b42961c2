package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	log "github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/AnnaFriedlander/LDA-for-FITS/checkpoint"
	"github.com/AnnaFriedlander/LDA-for-FITS/config"
	"github.com/AnnaFriedlander/LDA-for-FITS/corpus"
	"github.com/AnnaFriedlander/LDA-for-FITS/model"
)

var (
	configPath = flag.String("config", "", "YAML run configuration file")
	alpha      = flag.Float64("alpha", config.DefaultAlpha, "document-topic mixture hyperparameter")
	beta       = flag.Float64("beta", config.DefaultBeta, "topic-word mixture hyperparameter")
	seed       = flag.Int64("seed", 0, "random seed, 0 derives one from the clock")
	outDir     = flag.String("out_dir", ".", "directory checkpoint files are written to")
	topicModel = flag.String("model", "lda", "model type: lda or sparselda")
	saveState  = flag.Bool("save_state", false, "also write resumable token-topic state at every checkpoint")
	resume     = flag.String("resume", "", "state file to resume token-topic assignments from")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] run <count-file> <num-topics> <num-iterations>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer log.Flush()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg, err := configure(flag.Args(), explicit)
	if err != nil {
		var argErr *config.ArgumentError
		if errors.As(err, &argErr) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		log.Exitf("%v", err)
	}

	if err := run(cfg); err != nil {
		log.Exitf("%v", err)
	}
}

// configure builds the run configuration from the positional arguments,
// the optional config file and the flags set on the command line
func configure(args []string, explicit map[string]bool) (*config.Config, error) {
	if len(args) != 4 || args[0] != "run" {
		return nil, &config.ArgumentError{Msg: fmt.Sprintf("expected 'run <count-file> <num-topics> <num-iterations>', got %q", args)}
	}
	topics, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return nil, &config.ArgumentError{Msg: fmt.Sprintf("bad number of topics %q", args[2])}
	}
	iterations, err := strconv.Atoi(args[3])
	if err != nil {
		return nil, &config.ArgumentError{Msg: fmt.Sprintf("bad number of iterations %q", args[3])}
	}

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	if explicit["alpha"] {
		cfg.Alpha = *alpha
	}
	if explicit["beta"] {
		cfg.Beta = *beta
	}
	if explicit["seed"] {
		cfg.Seed = *seed
	}
	if explicit["out_dir"] {
		cfg.OutDir = *outDir
	}
	if explicit["model"] {
		cfg.Model = *topicModel
	}
	if explicit["save_state"] {
		cfg.SaveState = *saveState
	}
	if explicit["resume"] {
		cfg.Resume = *resume
	}
	cfg.Input = args[1]
	cfg.Topics = uint32(topics)
	cfg.Iterations = iterations

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := model.GetModel(cfg.Model); err != nil {
		return nil, &config.ArgumentError{Msg: err.Error()}
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	runID := uuid.New()
	start := time.Now()
	log.Infof("run %s: input %s, %d topics, %d iterations, model %s",
		runID, cfg.Input, cfg.Topics, cfg.Iterations, cfg.Model)

	// read training data
	data := &corpus.Corpus{}
	if err := data.Load(cfg.Input); err != nil {
		return err
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	log.Infof("run %s: seed %d", runID, cfg.Seed)

	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		log.Warningf("cannot create output directory %s: %v, every checkpoint of this run will fail to write",
			cfg.OutDir, err)
	}

	// init model
	ctor, err := model.GetModel(cfg.Model)
	if err != nil {
		return err
	}
	m, err := ctor(data, model.Options{
		TopicNum:     cfg.Topics,
		Alpha:        cfg.Alpha,
		Beta:         cfg.Beta,
		Rand:         rand.New(rand.NewSource(cfg.Seed)),
		Checkpointer: checkpoint.NewWriter(cfg.OutDir),
		SaveState:    cfg.SaveState,
	})
	if err != nil {
		return &corpus.LoadError{Path: cfg.Input, Err: err}
	}

	if cfg.Resume != "" {
		if err := m.LoadState(cfg.Resume); err != nil {
			return err
		}
		log.Infof("run %s: resumed from %s", runID, cfg.Resume)
	} else {
		m.Init()
	}

	m.Train(cfg.Iterations)

	log.Infof("run %s: done in %s", runID, time.Since(start))
	return nil
}
