package pipeline

import (
	"context"
	"fmt"

	"workalloc/internal/model"
	"workalloc/internal/store"
)

// fallbackSpecialties is the static second tier of the specialty
// lookup, consulted when no mapping is configured for a work type.
// Each entry is (required, alternate); alternate may be empty.
var fallbackSpecialties = map[string][2]string{
	"MRI_Brain":          {"Neurologist", model.GeneralSpecialty},
	"CT_Scan_Brain":      {"Neurologist", model.GeneralSpecialty},
	"MRI_Cardiac":        {"Cardiologist", model.GeneralSpecialty},
	"CT_Scan_Chest":      {model.GeneralSpecialty, ""},
	"X_Ray_Bone":         {"Musculoskeletal_Specialist", model.GeneralSpecialty},
	"X_Ray_Chest":        {model.GeneralSpecialty, ""},
	"Ultrasound_Abdomen": {model.GeneralSpecialty, ""},
	"Mammography":        {"Breast_Imaging_Specialist", model.GeneralSpecialty},
}

// Requirement is the resolver's output: the stored work item plus the
// two specialties downstream stages filter on. Both specialty values
// are always non-empty.
type Requirement struct {
	Work               model.WorkItem `json:"work_item"`
	RequiredSpecialty  string         `json:"required_specialty"`
	AlternateSpecialty string         `json:"alternate_specialty"`
}

// Resolver maps a work item's type to its required and alternate
// specialties: configured mapping first, static fallback table second,
// the generic specialty last.
type Resolver struct {
	store store.Store
}

// NewResolver returns a resolver backed by the given store.
func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve loads the work item and resolves its specialty requirement.
func (r *Resolver) Resolve(ctx context.Context, workID string) (*Requirement, error) {
	work, err := r.store.GetWorkItem(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("load work item: %w", err)
	}
	if work == nil {
		return nil, fmt.Errorf("%s: %w", workID, ErrNotFound)
	}

	mapping, err := r.store.GetSpecialtyMapping(ctx, work.WorkType)
	if err != nil {
		return nil, fmt.Errorf("load specialty mapping: %w", err)
	}

	var required, alternate string
	if mapping != nil {
		required = mapping.RequiredSpecialty
		alternate = mapping.AlternateSpecialty
	}

	if required == "" {
		fb, ok := fallbackSpecialties[work.WorkType]
		if !ok {
			fb = [2]string{model.GeneralSpecialty, model.GeneralSpecialty}
		}
		required = fb[0]
		if alternate == "" {
			alternate = fb[1]
		}
	}
	if alternate == "" {
		alternate = model.GeneralSpecialty
	}

	return &Requirement{
		Work:               *work,
		RequiredSpecialty:  required,
		AlternateSpecialty: alternate,
	}, nil
}
