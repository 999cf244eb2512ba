package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cupid-matcher/internal/filtering"
	"github.com/spigell/cupid-matcher/internal/images"
	"github.com/spigell/cupid-matcher/internal/profile"
	"github.com/spigell/cupid-matcher/internal/profile/profiletest"
	"github.com/spigell/cupid-matcher/internal/store"
)

// tableScorer returns a fixed overall score per target id.
type tableScorer struct {
	scores map[string]float64
	fail   map[string]bool
	calls  atomic.Int32
}

func (s *tableScorer) Score(_ context.Context, _, b *profile.Profile) (profile.CompatibilityScore, error) {
	s.calls.Add(1)
	if s.fail[b.ID] {
		return profile.CompatibilityScore{}, fmt.Errorf("scoring %s failed", b.ID)
	}
	v := s.scores[b.ID]
	return profile.CompatibilityScore{
		Overall: v, Emotional: v, Intellectual: v, Lifestyle: v,
		Details: profile.Details{Strengths: []string{}, Challenges: []string{}},
	}, nil
}

type brokenReader struct {
	err error
}

func (b brokenReader) GetProfile(context.Context, string) (*profile.Profile, error) {
	return nil, b.err
}

func (b brokenReader) ListProfiles(context.Context) ([]*profile.Profile, error) {
	return nil, b.err
}

// listFailingReader resolves profiles but cannot list them.
type listFailingReader struct {
	*store.Memory
}

func (listFailingReader) ListProfiles(context.Context) ([]*profile.Profile, error) {
	return nil, errors.New("scan interrupted")
}

func seed(t *testing.T, profiles ...*profile.Profile) *store.Memory {
	t.Helper()

	mem := store.NewMemory()
	for _, p := range profiles {
		if err := mem.PutProfile(context.Background(), p); err != nil {
			t.Fatalf("seed %s: %v", p.ID, err)
		}
	}
	return mem
}

func requireKind(t *testing.T, err error, want Kind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("expected %s, got %s (%v)", want, got, err)
	}
}

func TestFindMatch(t *testing.T) {
	requester := profiletest.New("CUPID-R", profile.GenderMale, profiletest.WithAgeWindow(25, 30))

	tests := []struct {
		name     string
		reader   func(t *testing.T) ProfileReader
		target   string
		wantKind Kind
		wantMsg  string
	}{
		{
			name: "eligible pair",
			reader: func(t *testing.T) ProfileReader {
				return seed(t, requester, profiletest.New("CUPID-T", profile.GenderFemale))
			},
			target: "CUPID-T",
		},
		{
			name: "unknown target",
			reader: func(t *testing.T) ProfileReader {
				return seed(t, requester)
			},
			target:   "CUPID-MISSING",
			wantKind: KindProfileNotFound,
			wantMsg:  "No registered user found with this CUPID ID",
		},
		{
			name: "unknown requester",
			reader: func(t *testing.T) ProfileReader {
				return seed(t, profiletest.New("CUPID-T", profile.GenderFemale))
			},
			target:   "CUPID-T",
			wantKind: KindIncompleteProfile,
		},
		{
			name: "incomplete requester",
			reader: func(t *testing.T) ProfileReader {
				return seed(t,
					profiletest.New("CUPID-R", profile.GenderMale, profiletest.Without(profile.SectionBehavioralInsights)),
					profiletest.New("CUPID-T", profile.GenderFemale),
				)
			},
			target:   "CUPID-T",
			wantKind: KindIncompleteProfile,
			wantMsg:  "Please complete your personality analysis first",
		},
		{
			name: "incomplete target",
			reader: func(t *testing.T) ProfileReader {
				return seed(t, requester, profiletest.New("CUPID-T", profile.GenderFemale, profiletest.Without(profile.SectionDealbreakers)))
			},
			target:   "CUPID-T",
			wantKind: KindIncompleteProfile,
			wantMsg:  "Target profile is incomplete",
		},
		{
			name: "self",
			reader: func(t *testing.T) ProfileReader {
				return seed(t, requester)
			},
			target:   "CUPID-R",
			wantKind: KindSelfMatch,
		},
		{
			name: "gender mismatch",
			reader: func(t *testing.T) ProfileReader {
				return seed(t, requester, profiletest.New("CUPID-T", profile.GenderMale))
			},
			target:   "CUPID-T",
			wantKind: KindGenderMismatch,
		},
		{
			name: "age mismatch",
			reader: func(t *testing.T) ProfileReader {
				return seed(t, requester, profiletest.New("CUPID-T", profile.GenderFemale, profiletest.WithAge(24)))
			},
			target:   "CUPID-T",
			wantKind: KindAgeMismatch,
		},
		{
			name: "storage failure",
			reader: func(*testing.T) ProfileReader {
				return brokenReader{err: errors.New("connection reset")}
			},
			target:   "CUPID-T",
			wantKind: KindStorage,
			wantMsg:  "Failed to access profile storage: get requester profile: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := &tableScorer{scores: map[string]float64{"CUPID-T": 0.8}}
			cache := NewCache(0, nil)
			svc := NewService(tt.reader(t), scorer, images.DefaultCatalog(), cache, zap.NewNop())

			match, err := svc.FindMatch(context.Background(), "CUPID-R", tt.target)
			if tt.wantKind != KindNone {
				requireKind(t, err, tt.wantKind)
				if tt.wantMsg != "" && err.Error() != tt.wantMsg {
					t.Fatalf("expected message %q, got %q", tt.wantMsg, err.Error())
				}
				if cache.Len() != 0 {
					t.Fatalf("failures must not be cached, cache has %d entries", cache.Len())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if match.ID != tt.target || match.Compatibility.Overall != 0.8 {
				t.Fatalf("unexpected match: %+v", match)
			}
			if match.Image != images.DefaultCatalog().ImageFor(profile.GenderFemale) {
				t.Fatalf("unexpected image: %s", match.Image)
			}
			if cache.Len() != 1 {
				t.Fatalf("expected result to be cached, cache has %d entries", cache.Len())
			}
		})
	}
}

func TestFindMatchServesFromCache(t *testing.T) {
	ctx := context.Background()
	mem := seed(t,
		profiletest.New("CUPID-R", profile.GenderMale),
		profiletest.New("CUPID-T", profile.GenderFemale),
	)
	scorer := &tableScorer{scores: map[string]float64{"CUPID-T": 0.8}}
	clock := newFakeClock()
	svc := NewService(mem, scorer, nil, NewCache(DefaultCacheTTL, clock.Now), nil)

	first, err := svc.FindMatch(ctx, "CUPID-R", "CUPID-T")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changed := profiletest.New("CUPID-T", profile.GenderFemale, profiletest.WithAge(45))
	if err := mem.PutProfile(ctx, changed); err != nil {
		t.Fatalf("update target: %v", err)
	}
	scorer.scores["CUPID-T"] = 0.1

	second, err := svc.FindMatch(ctx, "CUPID-R", "CUPID-T")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Compatibility.Overall != first.Compatibility.Overall || second.PersonalInfo.Age != first.PersonalInfo.Age {
		t.Fatalf("expected cached result, got %+v", second.Compatibility)
	}
	if scorer.calls.Load() != 1 {
		t.Fatalf("expected a single scoring call, got %d", scorer.calls.Load())
	}

	clock.Advance(DefaultCacheTTL + 1)
	third, err := svc.FindMatch(ctx, "CUPID-R", "CUPID-T")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.Compatibility.Overall != 0.1 || third.PersonalInfo.Age != 45 {
		t.Fatalf("expected recomputed result after ttl, got %+v", third.Compatibility)
	}
}

func TestFindMatchScoringFailure(t *testing.T) {
	mem := seed(t,
		profiletest.New("CUPID-R", profile.GenderMale),
		profiletest.New("CUPID-T", profile.GenderFemale),
	)
	scorer := &tableScorer{fail: map[string]bool{"CUPID-T": true}}
	cache := NewCache(0, nil)
	svc := NewService(mem, scorer, nil, cache, nil)

	_, err := svc.FindMatch(context.Background(), "CUPID-R", "CUPID-T")
	requireKind(t, err, KindGeneral)
	if !strings.HasPrefix(err.Error(), "Failed to find compatible matches") {
		t.Fatalf("unexpected message: %v", err)
	}
	if cache.Len() != 0 {
		t.Fatal("failed scoring must not be cached")
	}
}

func TestFindMatchWithLocalScorer(t *testing.T) {
	mem := seed(t,
		profiletest.New("CUPID-R", profile.GenderMale),
		profiletest.New("CUPID-T", profile.GenderFemale),
	)
	svc := NewService(mem, nil, nil, nil, nil)

	match, err := svc.FindMatch(context.Background(), "CUPID-R", "CUPID-T")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := match.Compatibility
	if c.Overall <= 0 || c.Overall > 1 {
		t.Fatalf("overall out of range: %v", c.Overall)
	}
	if len(c.Details.Strengths) == 0 {
		t.Fatalf("expected strengths for similar profiles: %+v", c.Details)
	}
}

func batchFixture(t *testing.T) *store.Memory {
	t.Helper()

	return seed(t,
		profiletest.New("CUPID-R", profile.GenderMale),
		profiletest.New("CUPID-A", profile.GenderFemale),
		profiletest.New("CUPID-B", profile.GenderFemale),
		profiletest.New("CUPID-C", profile.GenderFemale),
		profiletest.New("CUPID-D", profile.GenderFemale),
		profiletest.New("CUPID-M", profile.GenderMale),
		profiletest.New("CUPID-I", profile.GenderFemale, profiletest.Without(profile.SectionPreferences)),
	)
}

func ids(matches []profile.MatchedProfile) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.ID)
	}
	return out
}

func TestFindCompatibleMatches(t *testing.T) {
	scores := map[string]float64{
		"CUPID-A": 0.8,
		"CUPID-B": 0.9,
		"CUPID-C": 0.5,
		"CUPID-D": 0.8,
		"CUPID-M": 1,
		"CUPID-I": 1,
	}

	tests := []struct {
		name       string
		opts       []Option
		includeLow bool
		fail       map[string]bool
		want       []string
		wantKind   Kind
	}{
		{
			name: "above threshold sorted descending with stable ties",
			want: []string{"CUPID-B", "CUPID-A", "CUPID-D"},
		},
		{
			name:       "include low matches",
			includeLow: true,
			want:       []string{"CUPID-B", "CUPID-A", "CUPID-D", "CUPID-C"},
		},
		{
			name:       "limit",
			opts:       []Option{WithLimit(2)},
			includeLow: true,
			want:       []string{"CUPID-B", "CUPID-A"},
		},
		{
			name: "custom threshold",
			opts: []Option{WithThreshold(0.85)},
			want: []string{"CUPID-B"},
		},
		{
			name:     "nothing above threshold",
			opts:     []Option{WithThreshold(0.95)},
			wantKind: KindNoHighConfidenceMatches,
		},
		{
			name: "excluded ids",
			opts: []Option{WithExcluded("CUPID-B", " ")},
			want: []string{"CUPID-A", "CUPID-D"},
		},
		{
			name: "scoring failures are dropped",
			fail: map[string]bool{"CUPID-B": true},
			want: []string{"CUPID-A", "CUPID-D"},
		},
		{
			name:     "every candidate fails to score",
			fail:     map[string]bool{"CUPID-A": true, "CUPID-B": true, "CUPID-C": true, "CUPID-D": true},
			wantKind: KindNoEligibleCandidates,
		},
		{
			name: "serial scoring",
			opts: []Option{WithConcurrency(1)},
			want: []string{"CUPID-B", "CUPID-A", "CUPID-D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := &tableScorer{scores: scores, fail: tt.fail}
			svc := NewService(batchFixture(t), scorer, nil, nil, zap.NewNop(), tt.opts...)

			matches, err := svc.FindCompatibleMatches(context.Background(), "CUPID-R", tt.includeLow)
			if tt.wantKind != KindNone {
				requireKind(t, err, tt.wantKind)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := ids(matches)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for _, m := range matches {
				if m.Image == "" {
					t.Fatalf("expected image for %s", m.ID)
				}
			}
		})
	}
}

func TestFindCompatibleMatchesLowConfidenceMessage(t *testing.T) {
	scorer := &tableScorer{scores: map[string]float64{"CUPID-A": 0.5, "CUPID-B": 0.6}}
	svc := NewService(batchFixture(t), scorer, nil, nil, nil)

	_, err := svc.FindCompatibleMatches(context.Background(), "CUPID-R", false)
	requireKind(t, err, KindNoHighConfidenceMatches)
	if !errors.Is(err, ErrNoHighConfidenceMatches) {
		t.Fatalf("expected sentinel match, got %v", err)
	}
	if !strings.Contains(err.Error(), "75%+") {
		t.Fatalf("expected threshold in message, got %q", err.Error())
	}

	matches, err := svc.FindCompatibleMatches(context.Background(), "CUPID-R", true)
	if err != nil {
		t.Fatalf("unexpected error with low matches: %v", err)
	}
	if len(matches) != 4 {
		t.Fatalf("expected every eligible candidate, got %v", ids(matches))
	}
}

func TestFindCompatibleMatchesNoCandidates(t *testing.T) {
	tests := []struct {
		name    string
		mem     func(t *testing.T) *store.Memory
		wantMsg string
	}{
		{
			name: "requester alone",
			mem: func(t *testing.T) *store.Memory {
				return seed(t, profiletest.New("CUPID-R", profile.GenderMale))
			},
			wantMsg: "No other registered users found in the system",
		},
		{
			name: "nobody eligible",
			mem: func(t *testing.T) *store.Memory {
				return seed(t,
					profiletest.New("CUPID-R", profile.GenderMale),
					profiletest.New("CUPID-M", profile.GenderMale),
					profiletest.New("CUPID-I", profile.GenderFemale, profiletest.Without(profile.SectionPersonalInfo)),
				)
			},
			wantMsg: "No valid profiles found matching your preferences",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.mem(t), nil, nil, nil, nil)

			_, err := svc.FindCompatibleMatches(context.Background(), "CUPID-R", true)
			requireKind(t, err, KindNoEligibleCandidates)
			if err.Error() != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestFindCompatibleMatchesErrors(t *testing.T) {
	tests := []struct {
		name     string
		reader   func(t *testing.T) ProfileReader
		wantKind Kind
	}{
		{
			name: "unknown requester",
			reader: func(*testing.T) ProfileReader {
				return brokenReader{err: store.ErrNotFound}
			},
			wantKind: KindIncompleteProfile,
		},
		{
			name: "incomplete requester",
			reader: func(t *testing.T) ProfileReader {
				return seed(t,
					profiletest.New("CUPID-R", profile.GenderMale, profiletest.Without(profile.SectionRelationshipGoals)),
					profiletest.New("CUPID-A", profile.GenderFemale),
				)
			},
			wantKind: KindIncompleteProfile,
		},
		{
			name: "requester lookup fails",
			reader: func(*testing.T) ProfileReader {
				return brokenReader{err: errors.New("timeout")}
			},
			wantKind: KindStorage,
		},
		{
			name: "listing fails",
			reader: func(t *testing.T) ProfileReader {
				return listFailingReader{Memory: seed(t, profiletest.New("CUPID-R", profile.GenderMale))}
			},
			wantKind: KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.reader(t), nil, nil, nil, nil)

			_, err := svc.FindCompatibleMatches(context.Background(), "CUPID-R", true)
			requireKind(t, err, tt.wantKind)
		})
	}
}

func TestFindCompatibleMatchesLogsFilterPipeline(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewService(batchFixture(t), nil, nil, nil, zap.New(core), WithExcluded("CUPID-D"))

	if _, err := svc.FindCompatibleMatches(context.Background(), "CUPID-R", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("candidate filters").All()
	if len(entries) != 1 {
		t.Fatalf("expected one filter pipeline log, got %d", len(entries))
	}

	statuses, ok := entries[0].ContextMap()["filters"].([]filtering.Status)
	if !ok {
		t.Fatalf("unexpected filters field: %#v", entries[0].ContextMap()["filters"])
	}

	want := []string{"self", "excluded", "completeness", "eligibility"}
	if len(statuses) != len(want) {
		t.Fatalf("expected %d filters, got %+v", len(want), statuses)
	}
	for i, name := range want {
		if statuses[i].Name != name {
			t.Fatalf("filter %d: expected %s, got %s", i, name, statuses[i].Name)
		}
	}
	if statuses[1].Details["ids"] != "CUPID-D" {
		t.Fatalf("expected excluded ids in status, got %+v", statuses[1])
	}
}

func TestFindCompatibleMatchesLogsDroppedCandidates(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	scorer := &tableScorer{
		scores: map[string]float64{"CUPID-A": 0.9, "CUPID-B": 0.9, "CUPID-C": 0.9, "CUPID-D": 0.9},
		fail:   map[string]bool{"CUPID-C": true},
	}
	svc := NewService(batchFixture(t), scorer, nil, nil, zap.New(core))

	matches, err := svc.FindCompatibleMatches(context.Background(), "CUPID-R", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %v", ids(matches))
	}

	dropped := logs.FilterMessage("dropping candidate that failed to score").All()
	if len(dropped) != 1 {
		t.Fatalf("expected one dropped candidate log, got %d", len(dropped))
	}
	if got := dropped[0].ContextMap()["target_id"]; got != "CUPID-C" {
		t.Fatalf("expected dropped target CUPID-C, got %v", got)
	}
}

func TestFindCompatibleMatchesReusesCache(t *testing.T) {
	ctx := context.Background()
	scorer := &tableScorer{scores: map[string]float64{"CUPID-A": 0.9, "CUPID-B": 0.8, "CUPID-C": 0.7, "CUPID-D": 0.95}}
	svc := NewService(batchFixture(t), scorer, nil, nil, nil)

	if _, err := svc.FindMatch(ctx, "CUPID-R", "CUPID-A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.FindCompatibleMatches(ctx, "CUPID-R", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := scorer.calls.Load(); got != 4 {
		t.Fatalf("expected cached pair to be skipped, got %d scoring calls", got)
	}

	if _, err := svc.FindCompatibleMatches(ctx, "CUPID-R", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := scorer.calls.Load(); got != 4 {
		t.Fatalf("expected every pair to come from cache, got %d scoring calls", got)
	}
}

func TestFindCompatibleMatchesReportsCacheSize(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scorer := &tableScorer{
		scores: map[string]float64{"CUPID-A": 0.9, "CUPID-B": 0.8, "CUPID-C": 0.7, "CUPID-D": 0.95},
		fail:   map[string]bool{"CUPID-C": true},
	}
	svc := NewService(batchFixture(t), scorer, nil, nil, zap.New(core))

	if _, err := svc.FindCompatibleMatches(context.Background(), "CUPID-R", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("compatible matches found").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["cached_pairs"]; got != int64(3) {
		t.Fatalf("expected 3 cached pairs, got %v", got)
	}
}

func TestServiceConcurrentRequests(t *testing.T) {
	scorer := &tableScorer{scores: map[string]float64{"CUPID-A": 0.9, "CUPID-B": 0.8, "CUPID-C": 0.7, "CUPID-D": 0.95}}
	svc := NewService(batchFixture(t), scorer, nil, nil, nil, WithConcurrency(2))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			matches, err := svc.FindCompatibleMatches(context.Background(), "CUPID-R", false)
			if err != nil {
				errs <- err
				return
			}
			if len(matches) != 3 || matches[0].ID != "CUPID-D" {
				errs <- fmt.Errorf("unexpected ranking %v", ids(matches))
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatal(err)
	}
}
