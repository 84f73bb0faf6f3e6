package content

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	models "atrium/internal/domain/models/content"
)

// scopeFilter builds the WHERE fragment pinning a query to one
// namespace level. Placeholders are numbered from startIdx so callers
// can append further conditions.
func scopeFilter(scope models.Scope, parentID *string, startIdx int) (string, []interface{}) {
	var args []interface{}

	where := fmt.Sprintf("kind = $%d", startIdx)
	args = append(args, scope.Kind)

	if scope.Kind == models.KindRoom {
		where += fmt.Sprintf(" AND room_id = $%d", startIdx+1)
		args = append(args, scope.RoomID)
	} else {
		where += fmt.Sprintf(" AND owner_id = $%d", startIdx+1)
		args = append(args, scope.OwnerID)
	}

	if parentID == nil {
		where += " AND parent_id IS NULL"
	} else {
		where += fmt.Sprintf(" AND parent_id = $%d", startIdx+2)
		args = append(args, *parentID)
	}

	return where, args
}

// orderClause maps a sort key onto a whitelisted column. The id
// tie-break keeps pagination stable when the sort column has equal
// values on a page boundary.
func orderClause(nameColumn string, sortKey models.SortKey, sortDir models.SortDir) string {
	column := nameColumn
	switch sortKey {
	case models.SortByCreatedAt:
		column = "created_at"
	case models.SortByUpdatedAt:
		column = "updated_at"
	}

	direction := "ASC"
	if sortDir == models.SortDesc {
		direction = "DESC"
	}

	return fmt.Sprintf("%s %s, id ASC", column, direction)
}

func scanFolderRow(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.Kind,
		&folder.OwnerID,
		&folder.RoomID,
		&folder.ParentID,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func scanFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.Kind,
			&folder.OwnerID,
			&folder.RoomID,
			&folder.ParentID,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	if folders == nil {
		folders = []models.Folder{}
	}

	return folders, nil
}
