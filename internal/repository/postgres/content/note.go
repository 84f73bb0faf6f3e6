package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"atrium/internal/domain"
	models "atrium/internal/domain/models/content"
	contentRepo "atrium/internal/domain/repositories/content"
	"atrium/internal/repository/postgres"
)

// PostgresNoteRepository implements the NoteRepository interface
type PostgresNoteRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(config *postgres.RepositoryConfig) contentRepo.NoteRepository {
	return &PostgresNoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const noteColumns = "id, folder_id, owner_id, title, body, created_at, updated_at"

// Kind identifies this adapter in deletion summaries
func (r *PostgresNoteRepository) Kind() contentRepo.LeafKind {
	return contentRepo.LeafNotes
}

// Create creates a new note
func (r *PostgresNoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, owner_id, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		note.FolderID,
		note.OwnerID,
		note.Title,
		note.Body,
		note.CreatedAt,
		note.UpdatedAt,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note by ID
func (r *PostgresNoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, noteColumns, r.tables.Notes)

	var note models.Note
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&note.ID,
		&note.FolderID,
		&note.OwnerID,
		&note.Title,
		&note.Body,
		&note.CreatedAt,
		&note.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	return &note, nil
}

// Move re-files a note under another folder of the same scope
func (r *PostgresNoteRepository) Move(ctx context.Context, id string, folderID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, id)
	if err != nil {
		return fmt.Errorf("move note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// CountInFolder counts notes directly inside a folder
func (r *PostgresNoteRepository) CountInFolder(ctx context.Context, folderID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE folder_id = $1
	`, r.tables.Notes)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}

	return count, nil
}

// CountGrouped returns direct note counts for a set of folders in a
// single grouped query
func (r *PostgresNoteRepository) CountGrouped(ctx context.Context, folderIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(folderIDs))
	if len(folderIDs) == 0 {
		return counts, nil
	}

	query := fmt.Sprintf(`
		SELECT folder_id, COUNT(*)
		FROM %s
		WHERE folder_id = ANY($1)
		GROUP BY folder_id
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("count notes grouped: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var folderID string
		var count int
		if err := rows.Scan(&folderID, &count); err != nil {
			return nil, fmt.Errorf("scan note count: %w", err)
		}
		counts[folderID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note counts: %w", err)
	}

	return counts, nil
}

// ListIDsInFolder returns the ids of notes directly inside a folder
func (r *PostgresNoteRepository) ListIDsInFolder(ctx context.Context, folderID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE folder_id = $1
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list note ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan note id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note ids: %w", err)
	}

	return ids, nil
}

// DeleteByID removes one note
func (r *PostgresNoteRepository) DeleteByID(ctx context.Context, id, actorID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListInFolder returns notes directly inside a folder (nil = the
// owner's unfiled root), ordered and windowed
func (r *PostgresNoteRepository) ListInFolder(ctx context.Context, ownerID string, folderID *string, skip, take int, sortKey models.SortKey, sortDir models.SortDir) ([]models.Note, error) {
	if take <= 0 {
		return []models.Note{}, nil
	}

	where := "owner_id = $1"
	args := []interface{}{ownerID}
	if folderID == nil {
		where += " AND folder_id IS NULL"
	} else {
		args = append(args, *folderID)
		where += fmt.Sprintf(" AND folder_id = $%d", len(args))
	}

	args = append(args, take, skip)
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, noteColumns, r.tables.Notes, where, orderClause("title", sortKey, sortDir), len(args)-1, len(args))

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		err := rows.Scan(
			&note.ID,
			&note.FolderID,
			&note.OwnerID,
			&note.Title,
			&note.Body,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	if notes == nil {
		notes = []models.Note{}
	}

	return notes, nil
}
