package models

import "time"

const (
	KindFolder = "folder"
	KindFile   = "file"
	KindImage  = "image"
)

// RootParentID is the sentinel parent of top-level entries. Generated IDs
// start at 1, so 0 never collides with a real entry.
const RootParentID int64 = 0

type FileEntry struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   int64     `json:"userId" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Kind      string    `json:"type" db:"kind"`
	ParentID  int64     `json:"parentId" db:"parent_id"`
	IsPublic  bool      `json:"isPublic" db:"is_public"`
	LocalPath *string   `json:"-" db:"local_path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func ValidKind(kind string) bool {
	return kind == KindFolder || kind == KindFile || kind == KindImage
}
