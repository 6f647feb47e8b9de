package models

import "github.com/uptrace/bun"

// Register makes the many-to-many join models known to bun. It must run
// before the first query that touches Card.Effects or Card.Bonuses.
func Register(db *bun.DB) {
	db.RegisterModel((*CardEffect)(nil), (*CardBonus)(nil))
}
