package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the caller left the key empty. Postgres has
// a column default as well, but sqlite does not, so every model sets it here.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
