package core

import (
	"context"
	"fmt"
	"strings"
)

// triggerSearchIndex asks the indexer to refresh the document touched by the
// event. Events without a document id are skipped.
func (s *Service) triggerSearchIndex(ctx context.Context, event Envelope) error {
	if s == nil || s.searchIndexer == nil {
		return nil
	}
	documentID := strings.TrimSpace(event.DocumentID)
	if documentID == "" {
		return nil
	}
	if err := s.searchIndexer.Update(ctx, documentID); err != nil {
		return fmt.Errorf("core: search index update for document %s: %w", documentID, err)
	}
	return nil
}
