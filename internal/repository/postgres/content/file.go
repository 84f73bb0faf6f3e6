package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"atrium/internal/domain"
	models "atrium/internal/domain/models/content"
	contentRepo "atrium/internal/domain/repositories/content"
	"atrium/internal/repository/postgres"
	"atrium/internal/tasks"
)

// PostgresFileRepository implements the FileRepository interface. Row
// mutations are synchronous; downstream processing (embeddings on
// create, index cleanup on delete) goes through the task queue and is
// never awaited.
type PostgresFileRepository struct {
	pool     *pgxpool.Pool
	tables   *postgres.TableNames
	queue    tasks.Submitter
	pipeline contentRepo.FilePipeline
	logger   *slog.Logger
}

// NewFileRepository creates a new file repository. pipeline may be nil
// when no downstream processing is wired.
func NewFileRepository(config *postgres.RepositoryConfig, queue tasks.Submitter, pipeline contentRepo.FilePipeline) contentRepo.FileRepository {
	return &PostgresFileRepository{
		pool:     config.Pool,
		tables:   config.Tables,
		queue:    queue,
		pipeline: pipeline,
		logger:   config.Logger,
	}
}

const fileColumns = "id, folder_id, uploader_id, room_id, name, size_bytes, mime_type, storage_key, created_at, updated_at"

// Kind identifies this adapter in deletion summaries
func (r *PostgresFileRepository) Kind() contentRepo.LeafKind {
	return contentRepo.LeafFiles
}

// Create inserts the file metadata row and triggers downstream
// processing for it
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, uploader_id, room_id, name, size_bytes, mime_type, storage_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.FolderID,
		file.UploaderID,
		file.RoomID,
		file.Name,
		file.SizeBytes,
		file.MimeType,
		file.StorageKey,
		file.CreatedAt,
		file.UpdatedAt,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if r.pipeline != nil {
		created := *file
		r.queue.Submit(tasks.Task{
			Name: "file-process",
			Run: func(taskCtx context.Context) error {
				return r.pipeline.Process(taskCtx, &created)
			},
		})
	}

	return nil
}

// GetByID retrieves a file by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	file, err := scanFileRow(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// Move re-files a file under another folder of the same scope
func (r *PostgresFileRepository) Move(ctx context.Context, id string, folderID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, id)
	if err != nil {
		return fmt.Errorf("move file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// CountInFolder counts files directly inside a folder
func (r *PostgresFileRepository) CountInFolder(ctx context.Context, folderID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE folder_id = $1
	`, r.tables.Files)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}

	return count, nil
}

// CountGrouped returns direct file counts for a set of folders in a
// single grouped query
func (r *PostgresFileRepository) CountGrouped(ctx context.Context, folderIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(folderIDs))
	if len(folderIDs) == 0 {
		return counts, nil
	}

	query := fmt.Sprintf(`
		SELECT folder_id, COUNT(*)
		FROM %s
		WHERE folder_id = ANY($1)
		GROUP BY folder_id
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("count files grouped: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var folderID string
		var count int
		if err := rows.Scan(&folderID, &count); err != nil {
			return nil, fmt.Errorf("scan file count: %w", err)
		}
		counts[folderID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file counts: %w", err)
	}

	return counts, nil
}

// ListIDsInFolder returns the ids of files directly inside a folder
func (r *PostgresFileRepository) ListIDsInFolder(ctx context.Context, folderID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE folder_id = $1
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list file ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan file id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file ids: %w", err)
	}

	return ids, nil
}

// DeleteByID removes one file row and submits index cleanup for it.
// Deletion authority is folder-scoped: the uploader is not re-checked.
func (r *PostgresFileRepository) DeleteByID(ctx context.Context, id, actorID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
		RETURNING storage_key
	`, r.tables.Files)

	var storageKey string
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&storageKey)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete file: %w", err)
	}

	if r.pipeline != nil {
		r.queue.Submit(tasks.Task{
			Name: "file-index-cleanup",
			Run: func(taskCtx context.Context) error {
				return r.pipeline.CleanupIndex(taskCtx, id, storageKey)
			},
		})
	}

	return nil
}

// CountAt counts files directly at the given level of a scope
func (r *PostgresFileRepository) CountAt(ctx context.Context, scope models.Scope, folderID *string, search string) (int, error) {
	where, args := fileScopeFilter(scope, folderID)
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE %s
	`, r.tables.Files, where)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}

	return count, nil
}

// ListAt returns one ordered slice of the files directly at the given
// level of a scope
func (r *PostgresFileRepository) ListAt(ctx context.Context, scope models.Scope, folderID *string, search string, skip, take int, sortKey models.SortKey, sortDir models.SortDir) ([]models.File, error) {
	if take <= 0 {
		return []models.File{}, nil
	}

	where, args := fileScopeFilter(scope, folderID)
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	args = append(args, take, skip)
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, fileColumns, r.tables.Files, where, orderClause("name", sortKey, sortDir), len(args)-1, len(args))

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.FolderID,
			&file.UploaderID,
			&file.RoomID,
			&file.Name,
			&file.SizeBytes,
			&file.MimeType,
			&file.StorageKey,
			&file.CreatedAt,
			&file.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	if files == nil {
		files = []models.File{}
	}

	return files, nil
}

// fileScopeFilter pins a file query to one namespace level. Files have
// no kind column: a NULL room_id means personal scope.
func fileScopeFilter(scope models.Scope, folderID *string) (string, []interface{}) {
	var where string
	var args []interface{}

	if scope.Kind == models.KindRoom {
		where = "room_id = $1"
		args = append(args, scope.RoomID)
	} else {
		where = "room_id IS NULL AND uploader_id = $1"
		args = append(args, scope.OwnerID)
	}

	if folderID == nil {
		where += " AND folder_id IS NULL"
	} else {
		args = append(args, *folderID)
		where += fmt.Sprintf(" AND folder_id = $%d", len(args))
	}

	return where, args
}

func scanFileRow(row pgx.Row) (*models.File, error) {
	var file models.File
	err := row.Scan(
		&file.ID,
		&file.FolderID,
		&file.UploaderID,
		&file.RoomID,
		&file.Name,
		&file.SizeBytes,
		&file.MimeType,
		&file.StorageKey,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
