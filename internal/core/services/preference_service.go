package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
)

// SortPreferenceKey is the key the goal-list ordering is persisted under.
const SortPreferenceKey = "goals-order"

type PreferenceService struct {
	store domain.PreferenceStore
}

func NewPreferenceService(store domain.PreferenceStore) *PreferenceService {
	return &PreferenceService{store: store}
}

type UpdateSortInput struct {
	Key   *string
	Order *string
}

// SortSpec returns the stored ordering. The first read stores the default;
// unreadable or unknown values fall back to the default per field.
func (s *PreferenceService) SortSpec(ctx context.Context) (domain.SortSpec, error) {
	raw, found, err := s.store.Get(ctx, SortPreferenceKey)
	if err != nil {
		return domain.DefaultSortSpec, fmt.Errorf("preference service: read sort preference: %w", err)
	}

	if !found {
		if err := s.write(ctx, domain.DefaultSortSpec); err != nil {
			return domain.DefaultSortSpec, err
		}
		return domain.DefaultSortSpec, nil
	}

	var spec domain.SortSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		if err := s.write(ctx, domain.DefaultSortSpec); err != nil {
			return domain.DefaultSortSpec, err
		}
		return domain.DefaultSortSpec, nil
	}

	if k, err := domain.ParseSortKey(string(spec.Key)); err == nil {
		spec.Key = k
	} else {
		spec.Key = domain.DefaultSortSpec.Key
	}
	if o, err := domain.ParseSortOrder(string(spec.Order)); err == nil {
		spec.Order = o
	} else {
		spec.Order = domain.DefaultSortSpec.Order
	}

	return spec, nil
}

// UpdateSortSpec merges the provided fields into the stored ordering.
func (s *PreferenceService) UpdateSortSpec(ctx context.Context, input UpdateSortInput) (domain.SortSpec, error) {
	spec, err := s.SortSpec(ctx)
	if err != nil {
		return spec, err
	}

	if input.Key != nil {
		k, err := domain.ParseSortKey(*input.Key)
		if err != nil {
			return spec, err
		}
		spec.Key = k
	}
	if input.Order != nil {
		o, err := domain.ParseSortOrder(*input.Order)
		if err != nil {
			return spec, err
		}
		spec.Order = o
	}

	if err := s.write(ctx, spec); err != nil {
		return spec, err
	}
	return spec, nil
}

func (s *PreferenceService) write(ctx context.Context, spec domain.SortSpec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, SortPreferenceKey, string(data)); err != nil {
		return fmt.Errorf("preference service: write sort preference: %w", err)
	}
	return nil
}
