// Package usecase contains the business logic of the application.
package usecase

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pebbling-ai/pebbling-site/internal/domain"
	"github.com/pebbling-ai/pebbling-site/internal/gateway"
	"github.com/pebbling-ai/pebbling-site/internal/logging"
)

// Aggregator is the use case for the open-source stats of the site's repository.
// It orchestrates the fetching and combining of data.
//
// Nothing is cached. Identical calls that overlap in time share one
// upstream round trip; every later call goes upstream again.
type Aggregator struct {
	fetcher gateway.Fetcher
	owner   string
	repo    string
	logger  *zap.SugaredLogger
	flight  singleflight.Group
}

// NewAggregator creates a new Aggregator instance for owner/repo.
func NewAggregator(fetcher gateway.Fetcher, owner, repo string, logger *zap.SugaredLogger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		owner:   owner,
		repo:    repo,
		logger:  logging.OrNop(logger),
	}
}

// RepoStats fetches the star and contributor counts concurrently.
//
// A failed repository lookup is fatal. A failed contributors lookup is
// logged and reported as a nil Contributors count.
func (a *Aggregator) RepoStats(ctx context.Context) (*domain.RepoStats, error) {
	// The shared call must not die with whichever caller happened to start it.
	sharedCtx := context.WithoutCancel(ctx)
	v, err, _ := a.flight.Do("stats", func() (interface{}, error) {
		return a.fetchRepoStats(sharedCtx)
	})
	if err != nil {
		return nil, err
	}
	stats := *v.(*domain.RepoStats)
	return &stats, nil
}

func (a *Aggregator) fetchRepoStats(ctx context.Context) (*domain.RepoStats, error) {
	a.logger.Debugw("fetching repository stats", "owner", a.owner, "repo", a.repo)

	stats := &domain.RepoStats{}
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		stars, err := a.fetcher.FetchStars(egCtx, a.owner, a.repo)
		if err != nil {
			return err
		}
		stats.Stars = stars
		return nil
	})

	eg.Go(func() error {
		count, err := a.fetcher.FetchContributors(egCtx, a.owner, a.repo)
		if err != nil {
			a.logger.Warnw("contributors unavailable, reporting null",
				"repo", a.owner+"/"+a.repo,
				"err", err)
			return nil
		}
		stats.Contributors = &count
		return nil
	})

	if err := eg.Wait(); err != nil {
		a.logger.Errorw("error fetching GitHub stats", "repo", a.owner+"/"+a.repo, "err", err)
		return nil, err
	}
	return stats, nil
}

// Overview returns the GraphQL repository summary. It fails with
// gateway.ErrTokenRequired when no GitHub token is configured.
func (a *Aggregator) Overview(ctx context.Context) (*domain.RepoOverview, error) {
	sharedCtx := context.WithoutCancel(ctx)
	v, err, _ := a.flight.Do("overview", func() (interface{}, error) {
		return a.fetcher.FetchOverview(sharedCtx, a.owner, a.repo)
	})
	if err != nil {
		return nil, err
	}
	overview := *v.(*domain.RepoOverview)
	return &overview, nil
}
