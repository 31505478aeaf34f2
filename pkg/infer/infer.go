// Package infer runs Markov-chain sampling against a model graph. The
// sampling itself is delegated to gonum's Metropolis-Hastings implementation
// with a spherical normal proposal; this package only arranges chains,
// burn-in, thinning, and the conversion of raw draws into a posterior.
package infer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/mkelk/mmm-experiments/pkg/graph"
	"github.com/mkelk/mmm-experiments/pkg/posterior"
)

// Options configures one sampling run.
type Options struct {
	// Chains is the number of independent chains (default 4).
	Chains int
	// Draws is the number of retained draws per chain (default 1000).
	Draws int
	// BurnIn is the number of initial steps discarded per chain (default 1000).
	BurnIn int
	// Thin keeps every Thin-th step after burn-in (default 1).
	Thin int
	// StepSize is the standard deviation of the random-walk proposal
	// (default 0.05, suited to unit-scaled data).
	StepSize float64
	// Seed seeds the chains deterministically; chain i uses Seed+i.
	Seed uint64
	// Logger receives per-chain progress; nil discards.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Chains <= 0 {
		o.Chains = 4
	}
	if o.Draws <= 0 {
		o.Draws = 1000
	}
	if o.BurnIn < 0 {
		o.BurnIn = 0
	} else if o.BurnIn == 0 {
		o.BurnIn = 1000
	}
	if o.Thin <= 0 {
		o.Thin = 1
	}
	if o.StepSize <= 0 {
		o.StepSize = 0.05
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Sample draws from the posterior of the graph's parameters. Chains run
// concurrently; any chain failure aborts the run and propagates unmodified.
func Sample(ctx context.Context, g *graph.Graph, opts Options) (*posterior.Posterior, error) {
	opts = opts.withDefaults()

	dim := g.Dim()
	if dim == 0 {
		return nil, fmt.Errorf("infer: graph %q declares no parameters", g.Name())
	}

	batches := make([]*mat.Dense, opts.Chains)
	eg, ctx := errgroup.WithContext(ctx)
	for chain := 0; chain < opts.Chains; chain++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			batch, err := runChain(g, opts, chain)
			if err != nil {
				return fmt.Errorf("infer: chain %d: %w", chain, err)
			}
			batches[chain] = batch
			opts.Logger.Debug("chain finished",
				"model", g.Name(), "chain", chain,
				"draws", opts.Draws, "elapsed", time.Since(start))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return assemble(g, opts, batches)
}

// runChain executes one Metropolis-Hastings chain to completion.
func runChain(g *graph.Graph, opts Options, chain int) (*mat.Dense, error) {
	src := rand.NewSource(opts.Seed + uint64(chain))

	sigma := mat.NewSymDense(g.Dim(), nil)
	for i := 0; i < g.Dim(); i++ {
		sigma.SetSym(i, i, opts.StepSize*opts.StepSize)
	}
	proposal, ok := samplemv.NewProposalNormal(sigma, src)
	if !ok {
		return nil, fmt.Errorf("proposal covariance is not positive definite")
	}

	mh := samplemv.MetropolisHastingser{
		Initial:  g.InitialPoint(),
		Target:   g,
		Proposal: proposal,
		Src:      src,
		BurnIn:   opts.BurnIn,
		Rate:     opts.Thin,
	}

	batch := mat.NewDense(opts.Draws, g.Dim(), nil)
	mh.Sample(batch)
	return batch, nil
}

// assemble converts raw chain batches into a named posterior.
func assemble(g *graph.Graph, opts Options, batches []*mat.Dense) (*posterior.Posterior, error) {
	post := posterior.New(opts.Chains, opts.Draws)

	post.Raw = make([][]float64, 0, opts.Chains*opts.Draws)
	for _, batch := range batches {
		for row := 0; row < opts.Draws; row++ {
			post.Raw = append(post.Raw, append([]float64(nil), batch.RawRowView(row)...))
		}
	}

	for _, name := range g.ParamNames() {
		offset, size, err := g.ParamRange(name)
		if err != nil {
			return nil, err
		}
		draws := make([][]float64, size)
		for comp := 0; comp < size; comp++ {
			vals := make([]float64, 0, opts.Chains*opts.Draws)
			for _, batch := range batches {
				for row := 0; row < opts.Draws; row++ {
					vals = append(vals, batch.At(row, offset+comp))
				}
			}
			draws[comp] = vals
		}
		if err := post.AddParam(name, g.ParamLabels(name), draws); err != nil {
			return nil, err
		}
	}
	return post, nil
}
