// Package matching validates, scores and ranks profile pairs.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/cupid-matcher/internal/filtering"
	"github.com/spigell/cupid-matcher/internal/images"
	"github.com/spigell/cupid-matcher/internal/logger"
	"github.com/spigell/cupid-matcher/internal/profile"
	"github.com/spigell/cupid-matcher/internal/scoring"
	"github.com/spigell/cupid-matcher/internal/store"
)

const (
	DefaultThreshold   = 0.75
	DefaultLimit       = 10
	DefaultConcurrency = 4
)

// ProfileReader is the part of a profile store the service needs.
// Absent profiles are reported with store.ErrNotFound.
type ProfileReader interface {
	GetProfile(ctx context.Context, id string) (*profile.Profile, error)
	ListProfiles(ctx context.Context) ([]*profile.Profile, error)
}

type Option func(*Service)

// WithThreshold sets the minimum overall score for batch results.
func WithThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold >= 0 && threshold <= 1 {
			s.threshold = threshold
		}
	}
}

// WithLimit caps the number of batch results.
func WithLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithConcurrency bounds the number of candidates scored at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithExcluded hides the given profile ids from batch results.
func WithExcluded(ids ...string) Option {
	return func(s *Service) {
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				s.excluded = append(s.excluded, id)
			}
		}
	}
}

// Service answers single lookups and ranked batch searches.
type Service struct {
	store  ProfileReader
	scorer scoring.Scorer
	images images.Resolver
	cache  *Cache
	logger *zap.Logger

	threshold   float64
	limit       int
	concurrency int
	excluded    []string
}

func NewService(store ProfileReader, scorer scoring.Scorer, resolver images.Resolver, cache *Cache, log *zap.Logger, opts ...Option) *Service {
	if scorer == nil {
		scorer = scoring.NewLocal()
	}
	if resolver == nil {
		resolver = images.DefaultCatalog()
	}
	if cache == nil {
		cache = NewCache(DefaultCacheTTL, nil)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Service{
		store:       store,
		scorer:      scorer,
		images:      resolver,
		cache:       cache,
		logger:      log,
		threshold:   DefaultThreshold,
		limit:       DefaultLimit,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindMatch scores targetID for requesterID. A cached result within the
// cache TTL is returned without touching the store.
func (s *Service) FindMatch(ctx context.Context, requesterID, targetID string) (*profile.MatchedProfile, error) {
	log := logger.WithFields(s.logger, logger.MatchFields(requesterID, targetID)...)

	if cached, ok := s.cache.Get(CacheKey(requesterID, targetID)); ok {
		log.Debug("match served from cache")
		return &cached, nil
	}

	requester, err := s.resolveRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	target, err := s.store.GetProfile(ctx, targetID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, newError(KindProfileNotFound, "", err)
	case err != nil:
		return nil, newError(KindStorage, "", fmt.Errorf("get target profile: %w", err))
	case target == nil:
		return nil, newError(KindProfileNotFound, "", nil)
	}

	if !profile.IsComplete(target) {
		return nil, newError(KindIncompleteProfile, msgTargetIncomplete, nil)
	}

	match, err := s.evaluate(ctx, requester, target)
	if err != nil {
		return nil, err
	}

	log.Info("match computed", zap.Float64("overall", match.Compatibility.Overall))
	return &match, nil
}

// FindCompatibleMatches ranks every eligible candidate for requesterID.
// Results below the threshold are dropped unless includeLowMatches is set.
func (s *Service) FindCompatibleMatches(ctx context.Context, requesterID string, includeLowMatches bool) ([]profile.MatchedProfile, error) {
	log := logger.WithFields(s.logger, logger.MatchFields(requesterID, "")...)

	requester, err := s.resolveRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	all, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, newError(KindStorage, "", fmt.Errorf("list profiles: %w", err))
	}

	pipeline := filtering.New(log,
		filtering.NewSelf(requester.ID),
		filtering.NewExcluded(s.excluded, log),
		filtering.NewCompleteness(log),
		filtering.NewEligibility(requester, eligibilityCheck, log),
	)

	log.Debug("candidate filters", zap.Any("filters", pipeline.Describe()))

	candidates, err := pipeline.Run(ctx, all)
	if err != nil {
		return nil, newError(KindGeneral, "", fmt.Errorf("filter candidates: %w", err))
	}
	if len(candidates) == 0 {
		msg := ""
		if countOthers(all, requester.ID) == 0 {
			msg = msgNoOtherUsers
		}
		return nil, newError(KindNoEligibleCandidates, msg, nil)
	}

	scored := s.scoreAll(ctx, requester, candidates, log)
	if len(scored) == 0 {
		return nil, newError(KindNoEligibleCandidates, msgNoCompatible, nil)
	}

	matches := make([]profile.MatchedProfile, 0, len(scored))
	for _, m := range scored {
		if includeLowMatches || m.Compatibility.Overall >= s.threshold {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return nil, newError(KindNoHighConfidenceMatches, lowConfidenceMessage(s.threshold), nil)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Compatibility.Overall > matches[j].Compatibility.Overall
	})
	if len(matches) > s.limit {
		matches = matches[:s.limit]
	}

	log.Info("compatible matches found",
		zap.Int("candidates", len(candidates)),
		zap.Int("scored", len(scored)),
		zap.Int("returned", len(matches)),
		zap.Bool("include_low_matches", includeLowMatches),
		zap.Int("cached_pairs", s.cache.Len()),
	)

	return matches, nil
}

func (s *Service) resolveRequester(ctx context.Context, id string) (*profile.Profile, error) {
	requester, err := s.store.GetProfile(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, newError(KindIncompleteProfile, "", err)
	case err != nil:
		return nil, newError(KindStorage, "", fmt.Errorf("get requester profile: %w", err))
	}
	if !profile.IsComplete(requester) {
		return nil, newError(KindIncompleteProfile, "", nil)
	}
	return requester, nil
}

// scoreAll scores candidates concurrently. The result keeps candidate order;
// candidates that fail to score are logged and left out.
func (s *Service) scoreAll(ctx context.Context, requester *profile.Profile, candidates []*profile.Profile, log *zap.Logger) []profile.MatchedProfile {
	slots := make([]*profile.MatchedProfile, len(candidates))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			if cached, ok := s.cache.Get(CacheKey(requester.ID, candidate.ID)); ok {
				slots[i] = &cached
				return nil
			}

			match, err := s.evaluate(ctx, requester, candidate)
			if err != nil {
				log.Warn("dropping candidate that failed to score",
					zap.String(logger.FieldTarget, candidate.ID),
					zap.Error(err),
				)
				return nil
			}
			slots[i] = &match
			return nil
		})
	}
	_ = g.Wait()

	scored := make([]profile.MatchedProfile, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			scored = append(scored, *m)
		}
	}
	return scored
}

// evaluate gates the pair on eligibility, scores it and caches the result.
func (s *Service) evaluate(ctx context.Context, requester, target *profile.Profile) (profile.MatchedProfile, error) {
	if verdict := CheckEligibility(requester, target); verdict != Eligible {
		return profile.MatchedProfile{}, verdict.Err()
	}

	score, err := s.scorer.Score(ctx, requester, target)
	if err != nil {
		return profile.MatchedProfile{}, newError(KindGeneral, "", fmt.Errorf("score %s: %w", target.ID, err))
	}

	match := profile.MatchedProfile{
		Profile:       *target,
		Compatibility: score,
		Image:         s.images.ImageFor(target.PersonalInfo.Gender),
	}
	s.cache.Set(CacheKey(requester.ID, target.ID), match)
	return match, nil
}

func countOthers(profiles []*profile.Profile, requesterID string) int {
	n := 0
	for _, p := range profiles {
		if p != nil && p.ID != requesterID {
			n++
		}
	}
	return n
}

func eligibilityCheck(requester, target *profile.Profile) (bool, string) {
	verdict := CheckEligibility(requester, target)
	return verdict == Eligible, verdict.String()
}
