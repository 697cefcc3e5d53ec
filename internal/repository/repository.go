package repository

import (
	"errors"

	"gorm.io/gorm"

	svcErr "github.com/oggyb/eventswipe/internal/errors"
)

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// notFound turns gorm's missing-row error into the service taxonomy.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound(what)
	}
	return err
}
