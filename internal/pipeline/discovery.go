package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"workalloc/internal/model"
	"workalloc/internal/semantic"
	"workalloc/internal/store"
)

const (
	// minDirectCandidates is the specialty-query result size below
	// which semantic expansion kicks in.
	minDirectCandidates = 3
	semanticTopK        = 5
)

// Discovery fetches candidate resources for a specialty requirement,
// augmenting a thin result set through the semantic searcher. Semantic
// failures degrade silently to the specialty-only set.
type Discovery struct {
	store    store.Store
	searcher semantic.Searcher
}

// NewDiscovery returns a discovery stage. A nil searcher disables
// semantic expansion.
func NewDiscovery(s store.Store, searcher semantic.Searcher) *Discovery {
	if searcher == nil {
		searcher = semantic.Disabled{}
	}
	return &Discovery{store: s, searcher: searcher}
}

// Find returns candidates matching the requirement. Order is not
// significant; the matcher re-sorts by score.
func (d *Discovery) Find(ctx context.Context, req *Requirement) ([]model.Resource, error) {
	candidates, err := d.store.ListResourcesBySpecialty(ctx,
		[]string{req.RequiredSpecialty, req.AlternateSpecialty})
	if err != nil {
		return nil, fmt.Errorf("list resources by specialty: %w", err)
	}

	if len(candidates) >= minDirectCandidates {
		return candidates, nil
	}

	query := strings.TrimSpace(req.Work.WorkType + " " + req.Work.Description)
	hits, err := d.searcher.Search(ctx, query, semanticTopK)
	if err != nil {
		log.Warn().Err(err).Str("work_id", req.Work.ID).
			Msg("semantic expansion failed; using specialty matches only")
		return candidates, nil
	}
	if len(hits) == 0 {
		return candidates, nil
	}

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ResourceID)
	}
	extra, err := d.store.ListResourcesByIDs(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Str("work_id", req.Work.ID).
			Msg("resolving semantic hits failed; using specialty matches only")
		return candidates, nil
	}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[c.ID] = true
	}
	for _, r := range extra {
		if !seen[r.ID] {
			candidates = append(candidates, r)
		}
	}
	return candidates, nil
}
