package note

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clipvault/internal/crypto"
)

func encryptedFixture(t *testing.T, cipher *crypto.FieldCipher, id int64, content, source string) Note {
	t.Helper()

	n := Note{ID: id, Content: content, Source: source, Version: 1}
	require.NoError(t, encryptNote(cipher, &n))

	return n
}

func TestMemorySearch_FiltersAfterDecryption(t *testing.T) {
	cipher, err := crypto.NewFieldCipher(crypto.DeriveKey("pw", []byte("0123456789abcdef")))
	require.NoError(t, err)

	notes := []Note{
		encryptedFixture(t, cipher, 3, "Grocery list", "Notes"),
		encryptedFixture(t, cipher, 2, "meeting agenda", "Mail"),
		encryptedFixture(t, cipher, 1, "browser GROCERIES", "Safari"),
	}

	mockRepo := new(MockRepository)
	mockRepo.On("ListActive", mock.Anything).Return(notes, nil)

	search := &memorySearch{repo: mockRepo, cipher: cipher}

	got, err := search.search(context.Background(), "grocer", 10, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, "Grocery list", got[0].Content)
	assert.Equal(t, int64(1), got[1].ID)

	count, err := search.count(context.Background(), "grocer")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemorySearch_MatchesSource(t *testing.T) {
	cipher, err := crypto.NewFieldCipher(crypto.DeriveKey("pw", []byte("0123456789abcdef")))
	require.NoError(t, err)

	notes := []Note{encryptedFixture(t, cipher, 1, "plain text", "Safari")}

	mockRepo := new(MockRepository)
	mockRepo.On("ListActive", mock.Anything).Return(notes, nil)

	search := &memorySearch{repo: mockRepo, cipher: cipher}

	got, err := search.search(context.Background(), "safari", 10, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemorySearch_EmptyQueryMatchesAll(t *testing.T) {
	cipher, err := crypto.NewFieldCipher(crypto.DeriveKey("pw", []byte("0123456789abcdef")))
	require.NoError(t, err)

	notes := []Note{
		encryptedFixture(t, cipher, 2, "two", "a"),
		encryptedFixture(t, cipher, 1, "one", "b"),
	}

	mockRepo := new(MockRepository)
	mockRepo.On("ListActive", mock.Anything).Return(notes, nil)

	search := &memorySearch{repo: mockRepo, cipher: cipher}

	got, err := search.search(context.Background(), "", 10, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemorySearch_Paging(t *testing.T) {
	cipher, err := crypto.NewFieldCipher(crypto.DeriveKey("pw", []byte("0123456789abcdef")))
	require.NoError(t, err)

	notes := []Note{
		encryptedFixture(t, cipher, 3, "match three", "x"),
		encryptedFixture(t, cipher, 2, "match two", "x"),
		encryptedFixture(t, cipher, 1, "match one", "x"),
	}

	mockRepo := new(MockRepository)
	mockRepo.On("ListActive", mock.Anything).Return(notes, nil)

	search := &memorySearch{repo: mockRepo, cipher: cipher}

	got, err := search.search(context.Background(), "match", 1, 1)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got, err = search.search(context.Background(), "match", 10, 5)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemorySearch_DecryptFailurePropagates(t *testing.T) {
	cipher, err := crypto.NewFieldCipher(crypto.DeriveKey("pw", []byte("0123456789abcdef")))
	require.NoError(t, err)

	mockRepo := new(MockRepository)
	mockRepo.On("ListActive", mock.Anything).
		Return([]Note{{ID: 1, Content: "not-hex-ciphertext"}}, nil)

	search := &memorySearch{repo: mockRepo, cipher: cipher}

	_, err = search.search(context.Background(), "x", 10, 0)
	assert.ErrorIs(t, err, crypto.ErrDecryptFailed)
}
