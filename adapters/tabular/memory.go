package tabular

import (
	"context"
	"fmt"

	"graphboot/domain/core"
	"graphboot/domain/dataset"
	"graphboot/ports"
)

// MemorySource serves already-built datasets, preserving the order they were
// given in. Used by the HTTP surface (inline request payloads) and tests.
type MemorySource struct {
	order []core.GroupID
	data  map[core.GroupID]*dataset.ResidualDataset
}

var _ ports.ResidualSource = (*MemorySource)(nil)

// NewMemorySource wraps datasets in source order.
func NewMemorySource(datasets ...*dataset.ResidualDataset) *MemorySource {
	s := &MemorySource{data: make(map[core.GroupID]*dataset.ResidualDataset, len(datasets))}
	for _, ds := range datasets {
		if _, dup := s.data[ds.Group()]; !dup {
			s.order = append(s.order, ds.Group())
		}
		s.data[ds.Group()] = ds
	}
	return s
}

// Groups implements ports.ResidualSource.
func (s *MemorySource) Groups(ctx context.Context) ([]core.GroupID, error) {
	return append([]core.GroupID(nil), s.order...), nil
}

// Dataset implements ports.ResidualSource.
func (s *MemorySource) Dataset(ctx context.Context, group core.GroupID) (*dataset.ResidualDataset, error) {
	ds, ok := s.data[group]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrGroupNotFound, group)
	}
	return ds, nil
}
