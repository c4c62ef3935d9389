// Package answerkey looks up the correct option for question ids, optionally
// through a Redis cache.
package answerkey

import (
	"context"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/internal/store"
)

// Source returns the correct option for each id that exists. Unknown ids
// are absent from the result.
type Source interface {
	CorrectOptions(ctx context.Context, ids []int64) (map[int64]domain.Option, error)
}

// Store reads answer keys straight from the questions table.
type Store struct {
	store store.Store
}

func NewStore(s store.Store) *Store {
	return &Store{store: s}
}

func (s *Store) CorrectOptions(ctx context.Context, ids []int64) (map[int64]domain.Option, error) {
	return s.store.Questions().CorrectOptions(ctx, ids)
}
