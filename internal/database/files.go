package database

import (
	"context"
	"errors"
	"magazyn-plikow/internal/models"

	"github.com/jackc/pgx/v5"
)

var (
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
)

// PageSize is the fixed page length of ListFiles.
const PageSize = 20

type CreateFileParams struct {
	OwnerID   int64
	Name      string
	Kind      string
	ParentID  int64
	IsPublic  bool
	LocalPath *string
}

// CreateFile inserts a metadata entry. A non-root parent must exist, belong
// to the same owner and be a folder; both violations are creation-time
// errors with distinct sentinels.
func (s *PostgresStore) CreateFile(ctx context.Context, arg CreateFileParams) (*models.FileEntry, error) {
	if arg.ParentID != models.RootParentID {
		var parentKind string
		query := `SELECT kind FROM files WHERE id = $1 AND owner_id = $2`
		err := s.pool.QueryRow(ctx, query, arg.ParentID, arg.OwnerID).Scan(&parentKind)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parentKind != models.KindFolder {
			return nil, ErrParentNotFolder
		}
	}

	query := `
		INSERT INTO files (owner_id, name, kind, parent_id, is_public, local_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, name, kind, parent_id, is_public, local_path, created_at
	`
	row := s.pool.QueryRow(ctx, query,
		arg.OwnerID,
		arg.Name,
		arg.Kind,
		arg.ParentID,
		arg.IsPublic,
		arg.LocalPath,
	)

	var entry models.FileEntry
	err := row.Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Name,
		&entry.Kind,
		&entry.ParentID,
		&entry.IsPublic,
		&entry.LocalPath,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// GetFileByID fetches an entry scoped to its owner.
func (s *PostgresStore) GetFileByID(ctx context.Context, id, ownerID int64) (*models.FileEntry, error) {
	query := `
		SELECT id, owner_id, name, kind, parent_id, is_public, local_path, created_at
		FROM files
		WHERE id = $1 AND owner_id = $2
	`
	var entry models.FileEntry

	err := s.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Name,
		&entry.Kind,
		&entry.ParentID,
		&entry.IsPublic,
		&entry.LocalPath,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// GetFileAnyOwner fetches an entry regardless of ownership. Access rules
// are the caller's responsibility.
func (s *PostgresStore) GetFileAnyOwner(ctx context.Context, id int64) (*models.FileEntry, error) {
	query := `
		SELECT id, owner_id, name, kind, parent_id, is_public, local_path, created_at
		FROM files
		WHERE id = $1
	`
	var entry models.FileEntry

	err := s.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Name,
		&entry.Kind,
		&entry.ParentID,
		&entry.IsPublic,
		&entry.LocalPath,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// ListFiles returns the caller's entries newest-first in fixed pages of 20,
// optionally filtered to one parent. A missing parent is an empty page,
// not an error.
func (s *PostgresStore) ListFiles(ctx context.Context, ownerID int64, parentID *int64, page int) ([]models.FileEntry, error) {
	if page < 0 {
		page = 0
	}

	var query string
	var rows pgx.Rows
	var err error

	if parentID == nil {
		query = `SELECT id, owner_id, name, kind, parent_id, is_public, local_path, created_at
				 FROM files
				 WHERE owner_id = $1
				 ORDER BY id DESC
				 LIMIT $2 OFFSET $3`
		rows, err = s.pool.Query(ctx, query, ownerID, PageSize, PageSize*page)
	} else {
		query = `SELECT id, owner_id, name, kind, parent_id, is_public, local_path, created_at
				 FROM files
				 WHERE owner_id = $1 AND parent_id = $2
				 ORDER BY id DESC
				 LIMIT $3 OFFSET $4`
		rows, err = s.pool.Query(ctx, query, ownerID, *parentID, PageSize, PageSize*page)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.FileEntry
	for rows.Next() {
		var entry models.FileEntry
		err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.Name,
			&entry.Kind,
			&entry.ParentID,
			&entry.IsPublic,
			&entry.LocalPath,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if entries == nil {
		return []models.FileEntry{}, nil
	}

	return entries, nil
}

// SetFileVisibility flips the public flag in a single statement, scoped to
// the owner. Concurrent toggles are last-writer-wins.
func (s *PostgresStore) SetFileVisibility(ctx context.Context, id, ownerID int64, public bool) (*models.FileEntry, error) {
	query := `
		UPDATE files
		SET is_public = $1
		WHERE id = $2 AND owner_id = $3
		RETURNING id, owner_id, name, kind, parent_id, is_public, local_path, created_at
	`
	var entry models.FileEntry

	err := s.pool.QueryRow(ctx, query, public, id, ownerID).Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Name,
		&entry.Kind,
		&entry.ParentID,
		&entry.IsPublic,
		&entry.LocalPath,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

func (s *PostgresStore) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM files`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
