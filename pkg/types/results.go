package types

import "github.com/google/uuid"

// InsertResult mirrors the metadata returned by a single-row insert.
type InsertResult struct {
	Acknowledged bool      `json:"acknowledged"`
	InsertedID   uuid.UUID `json:"insertedId"`
}

// UpdateResult reports how many rows an update matched and changed.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult reports how many rows a delete removed.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func Inserted(id uuid.UUID) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: id}
}

func Updated(matched, modified int64) UpdateResult {
	return UpdateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}
}

func Deleted(count int64) DeleteResult {
	return DeleteResult{Acknowledged: true, DeletedCount: count}
}
