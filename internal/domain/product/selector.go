package product

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
)

// Scorer ranks candidates in refined mode; higher is better.
type Scorer func(p Product) float64

func TrustScorer(p Product) float64 {
	return p.TrustScore
}

type Constraints struct {
	Sphere          Sphere
	Categories      []string
	MinPrice        int64
	MaxPrice        int64
	RemainingBudget int64
	RandomMode      bool
	// refined mode only
	MinTrustScore float64
	AvoidTags     []string
	// products already picked in the running session
	ExcludeIDs []string
}

// PriceCeiling is the highest price a candidate may have.
func (c Constraints) PriceCeiling() int64 {
	return min(c.MaxPrice, c.RemainingBudget)
}

type Selector struct {
	mu     sync.Mutex
	rng    *rand.Rand
	scorer Scorer
}

func NewSelector(scorer Scorer, src rand.Source) *Selector {
	if scorer == nil {
		scorer = TrustScorer
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Selector{rng: rand.New(src), scorer: scorer}
}

func NewDefaultSelector() *Selector {
	return NewSelector(TrustScorer, nil)
}

// Select returns false when nothing passes the filters; callers treat that as
// "skip this tick".
func (s *Selector) Select(candidates []Product, c Constraints) (Product, bool) {
	filtered := Filter(candidates, c)
	if len(filtered) == 0 {
		return Product{}, false
	}
	if c.RandomMode {
		return s.pickRandom(filtered), true
	}
	return s.pickBest(filtered), true
}

func Filter(candidates []Product, c Constraints) []Product {
	ceiling := c.PriceCeiling()
	if ceiling < c.MinPrice {
		return nil
	}

	out := make([]Product, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, p := range candidates {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		if c.Sphere != "" && p.Sphere != c.Sphere {
			continue
		}
		if len(c.Categories) > 0 && !containsFold(c.Categories, p.Category) {
			continue
		}
		if p.Price < c.MinPrice || p.Price > ceiling || p.Price <= 0 {
			continue
		}
		if slices.Contains(c.ExcludeIDs, p.ID) {
			continue
		}
		if !c.RandomMode {
			if p.TrustScore < c.MinTrustScore {
				continue
			}
			if p.HasAnyTag(c.AvoidTags) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func (s *Selector) pickRandom(filtered []Product) Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Fisher-Yates over a copy so the caller's slice order is untouched.
	shuffled := slices.Clone(filtered)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[0]
}

func (s *Selector) pickBest(filtered []Product) Product {
	return slices.MaxFunc(filtered, func(a, b Product) int {
		if c := cmp.Compare(s.scorer(a), s.scorer(b)); c != 0 {
			return c
		}
		// lower price wins, so it compares as "greater"
		if c := cmp.Compare(b.Price, a.Price); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}

func containsFold(list []string, v string) bool {
	return slices.ContainsFunc(list, func(s string) bool { return strings.EqualFold(s, v) })
}
