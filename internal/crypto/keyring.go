package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2 parameters. Changing any of them invalidates every key
	// derived so far, so they are fixed for the life of the key file
	// format and recorded in the file alongside the salt.
	pbkdf2Iterations = 100000
	pbkdf2KeyLength  = 32 // 256 bits for AES-256
	pbkdf2SaltLength = 16

	keyFileVersion = 1
	keyAlgorithm   = "PBKDF2-SHA256"

	keyFilePermissions = 0o600

	// Suffix of the staged key file written during password rotation.
	stagedKeySuffix = ".next"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrDecryptFailed   = errors.New("decryption failed")
	ErrKeyExists       = errors.New("key file already exists")
	ErrNoKey           = errors.New("key file does not exist")
	ErrKeyLocked       = errors.New("key is locked")
)

// KeyHeader is the persisted key-file metadata. The derived key itself is
// never written to disk; only its SHA-256 fingerprint is stored for
// password verification.
type KeyHeader struct {
	Version      int       `json:"version"`
	KeyAlgorithm string    `json:"key_algorithm"`
	Salt         string    `json:"salt"` // hex encoded
	Iterations   int       `json:"iterations"`
	KeyHash      string    `json:"key_hash"` // hex SHA-256 of the derived key
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Keyring owns the key file and the in-memory derived key. The key goes
// through a fixed lifecycle: absent, set on Setup/Unlock, replaced on
// rotation commit, cleared on Lock.
type Keyring struct {
	keyPath   string
	header    KeyHeader
	key       []byte
	hasHeader bool
	mu        sync.RWMutex
}

// NewKeyring binds a keyring to a key-file path and loads the header when
// the file already exists.
func NewKeyring(keyPath string) (*Keyring, error) {
	absPath, err := filepath.Abs(keyPath)
	if err != nil {
		return nil, fmt.Errorf("resolve key path: %w", err)
	}

	k := &Keyring{keyPath: absPath}

	if _, err := os.Stat(absPath); err == nil {
		header, err := readHeader(absPath)
		if err != nil {
			return nil, fmt.Errorf("load key header: %w", err)
		}
		k.header = *header
		k.hasHeader = true
	}

	return k, nil
}

// DeriveKey derives the symmetric key from a password and salt.
// Deterministic: the same inputs always produce the same key.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
}

// HasKey reports whether a key file exists for this keyring.
func (k *Keyring) HasKey() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.hasHeader
}

// Unlocked reports whether the derived key is currently held in memory.
func (k *Keyring) Unlocked() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.key != nil
}

// Fingerprint returns the stored key fingerprint, or "" before Setup.
func (k *Keyring) Fingerprint() string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if !k.hasHeader {
		return ""
	}
	return k.header.KeyHash
}

// Key returns a copy of the active derived key.
func (k *Keyring) Key() ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.key == nil {
		return nil, ErrKeyLocked
	}
	keyCopy := make([]byte, len(k.key))
	copy(keyCopy, k.key)
	return keyCopy, nil
}

// Setup creates the key file for a brand-new vault and holds the derived
// key in memory. Fails if a key file is already present.
func (k *Keyring) Setup(password string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.hasHeader {
		return ErrKeyExists
	}

	salt := make([]byte, pbkdf2SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	key := DeriveKey(password, salt)
	now := time.Now()
	header := KeyHeader{
		Version:      keyFileVersion,
		KeyAlgorithm: keyAlgorithm,
		Salt:         hex.EncodeToString(salt),
		Iterations:   pbkdf2Iterations,
		KeyHash:      fingerprint(key),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := writeHeader(k.keyPath, &header); err != nil {
		clearKey(key)
		return err
	}

	k.header = header
	k.hasHeader = true
	k.key = key
	return nil
}

// Unlock re-derives the key from the candidate password and verifies it
// against the stored fingerprint. A mismatch fails with ErrInvalidPassword
// regardless of whether the password or the key file is at fault.
func (k *Keyring) Unlock(password string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.hasHeader {
		return ErrNoKey
	}

	key, err := k.deriveFromHeader(password, &k.header)
	if err != nil {
		return err
	}

	clearKey(k.key)
	k.key = key
	return nil
}

// VerifyPassword checks a password without changing the unlocked state.
func (k *Keyring) VerifyPassword(password string) error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if !k.hasHeader {
		return ErrNoKey
	}

	key, err := k.deriveFromHeader(password, &k.header)
	if err != nil {
		return err
	}
	clearKey(key)
	return nil
}

// Lock clears the derived key from memory.
func (k *Keyring) Lock() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clearKey(k.key)
	k.key = nil
}

// StagedKey is a replacement key written to a temporary path during
// password rotation. Commit renames it over the live key file only after
// the data re-encryption transaction has committed.
type StagedKey struct {
	keyring *Keyring
	header  KeyHeader
	key     []byte
	path    string
}

// StageRotation derives a key from the new password under a fresh salt and
// writes the replacement key file next to the live one. The live key file
// is untouched until Commit.
func (k *Keyring) StageRotation(newPassword string) (*StagedKey, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.hasHeader {
		return nil, ErrNoKey
	}

	salt := make([]byte, pbkdf2SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := DeriveKey(newPassword, salt)
	header := KeyHeader{
		Version:      keyFileVersion,
		KeyAlgorithm: keyAlgorithm,
		Salt:         hex.EncodeToString(salt),
		Iterations:   pbkdf2Iterations,
		KeyHash:      fingerprint(key),
		CreatedAt:    k.header.CreatedAt,
		UpdatedAt:    time.Now(),
	}

	stagedPath := k.keyPath + stagedKeySuffix
	if err := writeHeader(stagedPath, &header); err != nil {
		clearKey(key)
		return nil, err
	}

	return &StagedKey{
		keyring: k,
		header:  header,
		key:     key,
		path:    stagedPath,
	}, nil
}

// Fingerprint returns the staged key's fingerprint.
func (s *StagedKey) Fingerprint() string {
	return s.header.KeyHash
}

// Key returns a copy of the staged derived key.
func (s *StagedKey) Key() []byte {
	keyCopy := make([]byte, len(s.key))
	copy(keyCopy, s.key)
	return keyCopy
}

// Commit atomically renames the staged file over the live key file and
// makes the staged key the active one.
func (s *StagedKey) Commit() error {
	s.keyring.mu.Lock()
	defer s.keyring.mu.Unlock()

	if err := os.Rename(s.path, s.keyring.keyPath); err != nil {
		return fmt.Errorf("promote staged key file: %w", err)
	}

	clearKey(s.keyring.key)
	s.keyring.header = s.header
	s.keyring.hasHeader = true
	s.keyring.key = s.key
	s.key = nil
	return nil
}

// Discard removes the staged file and wipes the staged key. Safe to call
// after a failed rotation or after Commit.
func (s *StagedKey) Discard() {
	if s.key != nil {
		clearKey(s.key)
		s.key = nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		// Best effort; a leftover staged file is reconciled on next open.
		_ = err
	}
}

// StagedHeader reads the header of a leftover staged key file, if any.
// Returns nil when no staged file exists.
func (k *Keyring) StagedHeader() (*KeyHeader, error) {
	stagedPath := k.keyPath + stagedKeySuffix
	if _, err := os.Stat(stagedPath); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat staged key file: %w", err)
	}
	return readHeader(stagedPath)
}

// PromoteStaged finishes an interrupted rotation by renaming a leftover
// staged key file into place. Idempotent on retry.
func (k *Keyring) PromoteStaged() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	stagedPath := k.keyPath + stagedKeySuffix
	header, err := readHeader(stagedPath)
	if err != nil {
		return fmt.Errorf("load staged key header: %w", err)
	}

	if err := os.Rename(stagedPath, k.keyPath); err != nil {
		return fmt.Errorf("promote staged key file: %w", err)
	}

	clearKey(k.key)
	k.key = nil
	k.header = *header
	k.hasHeader = true
	return nil
}

// RemoveStaged deletes a stale staged key file.
func (k *Keyring) RemoveStaged() error {
	err := os.Remove(k.keyPath + stagedKeySuffix)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged key file: %w", err)
	}
	return nil
}

func (k *Keyring) deriveFromHeader(password string, header *KeyHeader) ([]byte, error) {
	salt, err := hex.DecodeString(header.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}

	if header.KeyAlgorithm != keyAlgorithm {
		return nil, fmt.Errorf("unsupported key algorithm: %s", header.KeyAlgorithm)
	}

	key := pbkdf2.Key([]byte(password), salt, header.Iterations, pbkdf2KeyLength, sha256.New)

	expected, err := hex.DecodeString(header.KeyHash)
	if err != nil {
		clearKey(key)
		return nil, fmt.Errorf("decode key fingerprint: %w", err)
	}

	hash := sha256.Sum256(key)
	if !hmac.Equal(hash[:], expected) {
		clearKey(key)
		return nil, ErrInvalidPassword
	}

	return key, nil
}

func fingerprint(key []byte) string {
	hash := sha256.Sum256(key)
	return hex.EncodeToString(hash[:])
}

func readHeader(path string) (*KeyHeader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	var header KeyHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("decode key file: %w", err)
	}
	return &header, nil
}

func writeHeader(path string, header *KeyHeader) error {
	data, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return fmt.Errorf("encode key file: %w", err)
	}

	if err := os.WriteFile(path, data, keyFilePermissions); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

func clearKey(key []byte) {
	for i := range key {
		key[i] = 0
	}
}
