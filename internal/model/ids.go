package model

import "github.com/google/uuid"

// Идентификаторы генерируются на стороне приложения: varchar(36) одинаково
// работает в postgres, mysql и sqlite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
