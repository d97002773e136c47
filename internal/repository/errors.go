package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Общие ошибки хранилища.
var (
	// ErrNotFound: запись не найдена.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry: нарушено ограничение уникальности.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// mapError приводит ошибки GORM и драйверов к ошибкам пакета.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicateEntry
	default:
		return err
	}
}

// Драйверы без TranslateError: postgres "duplicate key", mysql "Duplicate entry",
// sqlite "UNIQUE constraint failed".
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
