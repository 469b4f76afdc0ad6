package note

import (
	"context"
	"fmt"
	"strings"

	"clipvault/internal/crypto"
)

// searchStrategy answers substring queries over content and source. Both
// implementations return plaintext notes ordered by captured_at descending
// and treat an empty query as matching everything.
type searchStrategy interface {
	search(ctx context.Context, query string, limit, offset int) ([]Note, error)
	count(ctx context.Context, query string) (int, error)
}

// storageSearch pushes the match down into the repository. Only usable
// when field values are stored as plaintext.
type storageSearch struct {
	repo Repository
}

func (s *storageSearch) search(ctx context.Context, query string, limit, offset int) ([]Note, error) {
	notes, err := s.repo.SearchPattern(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}

	return notes, nil
}

func (s *storageSearch) count(ctx context.Context, query string) (int, error) {
	count, err := s.repo.CountPattern(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}

	return count, nil
}

// memorySearch materialises all active notes, decrypts them and filters in
// memory. The ciphertext leaks nothing about content, so matching has to
// happen after decryption.
type memorySearch struct {
	repo   Repository
	cipher *crypto.FieldCipher
}

func (s *memorySearch) search(ctx context.Context, query string, limit, offset int) ([]Note, error) {
	matched, err := s.matchAll(ctx, query)
	if err != nil {
		return nil, err
	}

	if offset >= len(matched) {
		return []Note{}, nil
	}

	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], nil
}

func (s *memorySearch) count(ctx context.Context, query string) (int, error) {
	matched, err := s.matchAll(ctx, query)
	if err != nil {
		return 0, err
	}

	return len(matched), nil
}

func (s *memorySearch) matchAll(ctx context.Context, query string) ([]Note, error) {
	notes, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}

	needle := strings.ToLower(query)
	matched := make([]Note, 0, len(notes))

	for _, n := range notes {
		if err := decryptNote(s.cipher, &n); err != nil {
			return nil, err
		}

		if strings.Contains(strings.ToLower(n.Content), needle) ||
			strings.Contains(strings.ToLower(n.Source), needle) {
			matched = append(matched, n)
		}
	}

	return matched, nil
}

func decryptNote(cipher *crypto.FieldCipher, n *Note) error {
	var err error

	if n.Content, err = cipher.Decrypt(n.Content); err != nil {
		return fmt.Errorf("decrypt note %d content: %w", n.ID, err)
	}

	if n.Source, err = cipher.Decrypt(n.Source); err != nil {
		return fmt.Errorf("decrypt note %d source: %w", n.ID, err)
	}

	if n.URL, err = cipher.Decrypt(n.URL); err != nil {
		return fmt.Errorf("decrypt note %d url: %w", n.ID, err)
	}

	return nil
}
