/*
Package experiment runs learning curve experiments: it grows one tree for
every training set size up to a limit, optionally prunes it against a
validation dataset and measures its error on the training, validation and
test datasets.
*/
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"golang.org/x/sync/errgroup"
)

const progressInterval = 5

/*
Config holds the configuration of an experiment.

TrainingSetSize is the exclusive upper bound of the training set sizes: trees
are grown on the first n samples for every n in [1, TrainingSetSize).
ValidationRange and TestRange are index ranges as accepted by
dataset.ParseRanges. An empty ValidationRange disables pruning. Order is an
optional index range that reorders the samples before anything else.
Concurrency limits the number of trees grown at the same time, 0 meaning
no limit.
*/
type Config struct {
	TrainingSetSize int    `validate:"gte=2"`
	ValidationRange string
	TestRange       string `validate:"required"`
	Order           string
	Concurrency     int    `validate:"gte=0"`
}

// Validate returns an error if the configuration is not valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid experiment configuration: %w", err)
	}
	return nil
}

/*
Point holds the measures of the tree grown for a training set size.
Errors are rates in [0, 1]. ValidationError is only meaningful when
Validated is true, that is, when the tree was pruned against a validation
dataset. Pruned is the number of nodes pruned.
*/
type Point struct {
	Size            int
	TrainingError   float64
	ValidationError float64
	TestError       float64
	Pruned          int
	Validated       bool
}

/*
Runner runs experiments growing trees for Label with Features.
If Logger is nil slog.Default() is used. If Metrics is not nil every
iteration is recorded on it.
*/
type Runner struct {
	Features []feature.Feature
	Label    feature.Feature
	Logger   *slog.Logger
	Metrics  *Metrics
}

/*
Run takes a context, a dataset and a configuration and runs an experiment,
returning its points ordered by training set size. Iterations run
concurrently up to the configured limit; the first error cancels the
remaining ones and is returned.
*/
func (r *Runner) Run(ctx context.Context, ds dataset.Dataset, cfg Config) ([]Point, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ordered, validation, test, err := split(ctx, ds, cfg)
	if err != nil {
		return nil, err
	}
	count, err := ordered.Count(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.TrainingSetSize > count+1 {
		return nil, fmt.Errorf("training set size %d over %d available samples: %w", cfg.TrainingSetSize, count, dataset.ErrIndexOutOfRange)
	}
	pruner := sapling.NoPruner()
	validationCount, err := validation.Count(ctx)
	if err != nil {
		return nil, err
	}
	if validationCount > 0 {
		pruner = sapling.ReducedErrorPruner(validation)
	}
	points := make([]Point, cfg.TrainingSetSize-1)
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}
	for n := 1; n < cfg.TrainingSetSize; n++ {
		n := n
		g.Go(func() error {
			p, err := r.iterate(gctx, ordered, n, pruner, validation, test)
			if err != nil {
				return fmt.Errorf("training set size %d: %w", n, err)
			}
			points[n-1] = p
			if r.Metrics != nil {
				r.Metrics.Observe(p)
			}
			if n%progressInterval == 0 {
				logger.Info("experiment iteration done", "size", n, "training_error", p.TrainingError, "test_error", p.TestError, "pruned", p.Pruned)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	if r.Metrics != nil {
		r.Metrics.Finish(points[len(points)-1], time.Since(start))
	}
	logger.Debug("experiment done", "iterations", len(points), "duration", time.Since(start))
	return points, nil
}

func (r *Runner) iterate(ctx context.Context, ds dataset.Dataset, n int, pruner sapling.Pruner, validation, test dataset.Dataset) (Point, error) {
	p := Point{Size: n}
	training, err := dataset.Select(ctx, ds, dataset.Range(0, n))
	if err != nil {
		return p, err
	}
	t, err := sapling.Grow(ctx, training, r.Features, r.Label)
	if err != nil {
		return p, err
	}
	report, err := pruner.Prune(ctx, t)
	if err != nil {
		return p, err
	}
	p.Pruned = report.Pruned
	p.Validated = !report.Skipped
	if p.Validated {
		p.ValidationError = report.FinalError
	}
	p.TrainingError, err = t.ErrorRate(ctx, training)
	if err != nil {
		return p, err
	}
	p.TestError, err = t.ErrorRate(ctx, test)
	if err != nil {
		return p, fmt.Errorf("test dataset: %w", err)
	}
	return p, nil
}

func split(ctx context.Context, ds dataset.Dataset, cfg Config) (ordered, validation, test dataset.Dataset, err error) {
	count, err := ds.Count(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	ordered = ds
	if cfg.Order != "" {
		indices, err := dataset.ParseRanges(cfg.Order, count)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("order: %w", err)
		}
		ordered, err = dataset.Select(ctx, ds, indices)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("order: %w", err)
		}
		count = len(indices)
	}
	indices, err := dataset.ParseRanges(cfg.ValidationRange, count)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("validation range: %w", err)
	}
	validation, err = dataset.Select(ctx, ordered, indices)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("validation range: %w", err)
	}
	indices, err = dataset.ParseRanges(cfg.TestRange, count)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("test range: %w", err)
	}
	test, err = dataset.Select(ctx, ordered, indices)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("test range: %w", err)
	}
	return ordered, validation, test, nil
}
