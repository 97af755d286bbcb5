package models

// All lists every persisted model. Used for sqlite auto-migration; postgres
// schemas come from the goose migrations.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&CartItem{},
		&WishlistItem{},
		&Order{},
	}
}
