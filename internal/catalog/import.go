package catalog

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/errors"
)

// Document is the on-disk catalog exchange format
type Document struct {
	Processes []pricing.Process  `json:"processes"`
	Materials []pricing.Material `json:"materials"`
}

// ImportResult reports the ids written by Import
type ImportResult struct {
	ProcessIDs  []string `json:"processIds"`
	MaterialIDs []string `json:"materialIds"`
}

// Import decodes a Document and saves every entry. It stops at the first
// invalid entry; entries saved before it are kept.
func (s *Store) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, pricing.ClassifyJSONError(err)
	}

	res := &ImportResult{
		ProcessIDs:  make([]string, 0, len(doc.Processes)),
		MaterialIDs: make([]string, 0, len(doc.Materials)),
	}
	for i := range doc.Processes {
		id, err := s.PutProcess(ctx, &doc.Processes[i])
		if err != nil {
			return res, wrapEntry(err, "processes", i)
		}
		res.ProcessIDs = append(res.ProcessIDs, id)
	}
	for i := range doc.Materials {
		id, err := s.PutMaterial(ctx, &doc.Materials[i])
		if err != nil {
			return res, wrapEntry(err, "materials", i)
		}
		res.MaterialIDs = append(res.MaterialIDs, id)
	}

	s.logger.Info("catalog imported",
		zap.Int("processes", len(res.ProcessIDs)),
		zap.Int("materials", len(res.MaterialIDs)))
	return res, nil
}

// Export reads the whole catalog as a Document
func (s *Store) Export(ctx context.Context) (*Document, error) {
	processes, err := s.ListProcesses(ctx)
	if err != nil {
		return nil, err
	}
	materials, err := s.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	return &Document{Processes: processes, Materials: materials}, nil
}

func wrapEntry(err error, section string, i int) error {
	if e, ok := errors.As(err); ok {
		return e.WithContext(section+"Index", i)
	}
	return err
}
