package content

import (
	"context"

	"atrium/internal/domain/models/content"
)

// FilePipeline is the boundary to downstream file processing: the
// derived search index and the embedding generator. Calls are made from
// background tasks only, never on the request path, and their failures
// are logged, not propagated.
type FilePipeline interface {
	// Process ingests a newly uploaded file (embedding generation,
	// index registration)
	Process(ctx context.Context, file *content.File) error

	// CleanupIndex removes derived search-index artifacts for a
	// deleted file
	CleanupIndex(ctx context.Context, fileID, storageKey string) error
}
