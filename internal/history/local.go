package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mindscreen/internal/models"
)

// File name prefixes. The encrypted namespace is deliberately separate from
// the plain one so switching login modes never silently decrypts or
// overwrites the other store.
const (
	plainPrefix     = "ms_history_"
	encryptedPrefix = "ms_history_e_"
)

// PlainStore writes the whole history array as one JSON file per identity.
type PlainStore struct {
	dir string
}

func NewPlainStore(dir string) *PlainStore {
	return &PlainStore{dir: dir}
}

func (s *PlainStore) Name() string { return "local-plain" }

func (s *PlainStore) Save(_ context.Context, identity string, result models.AssessmentResult) error {
	existing, err := s.load(identity)
	if err != nil {
		return err
	}
	appended, changed := appendUnique(existing, result)
	if !changed {
		return nil
	}
	data, err := json.Marshal(appended)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path(identity), data)
}

func (s *PlainStore) Load(_ context.Context, identity string) ([]models.AssessmentResult, error) {
	return s.load(identity)
}

func (s *PlainStore) load(identity string) ([]models.AssessmentResult, error) {
	data, err := os.ReadFile(s.path(identity))
	if errors.Is(err, fs.ErrNotExist) {
		return []models.AssessmentResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	var results []models.AssessmentResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("corrupt history file for %s: %w", identity, err)
	}
	return results, nil
}

func (s *PlainStore) path(identity string) string {
	return filepath.Join(s.dir, plainPrefix+sanitize(identity)+".json")
}

// EncryptedStore keeps the full history array as a single encrypted blob
// per identity. Saving re-reads, appends, and re-encrypts the whole blob,
// which preserves append order. Reading with the wrong password returns an
// empty history rather than an error; history is supplementary.
type EncryptedStore struct {
	dir      string
	password string
}

func NewEncryptedStore(dir, password string) *EncryptedStore {
	return &EncryptedStore{dir: dir, password: password}
}

func (s *EncryptedStore) Name() string { return "local-encrypted" }

func (s *EncryptedStore) Save(ctx context.Context, identity string, result models.AssessmentResult) error {
	existing, err := s.Load(ctx, identity)
	if err != nil {
		return err
	}
	appended, changed := appendUnique(existing, result)
	if !changed {
		return nil
	}
	payload, err := EncryptJSON(appended, s.password)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path(identity), []byte(payload))
}

func (s *EncryptedStore) Load(_ context.Context, identity string) ([]models.AssessmentResult, error) {
	data, err := os.ReadFile(s.path(identity))
	if errors.Is(err, fs.ErrNotExist) {
		return []models.AssessmentResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	var results []models.AssessmentResult
	if err := DecryptJSON(string(data), s.password, &results); err != nil {
		// Wrong password or tampered blob: degrade to no history.
		return []models.AssessmentResult{}, nil
	}
	return results, nil
}

func (s *EncryptedStore) path(identity string) string {
	return filepath.Join(s.dir, encryptedPrefix+sanitize(identity)+".json")
}

// appendUnique enforces the dedup-by-assessmentId contract.
func appendUnique(existing []models.AssessmentResult, result models.AssessmentResult) ([]models.AssessmentResult, bool) {
	for _, r := range existing {
		if r.AssessmentID == result.AssessmentID {
			return existing, false
		}
	}
	return append(existing, result), true
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// sanitize keeps identity-derived file names flat; identities are opaque
// ids but must never be able to escape the storage directory.
func sanitize(identity string) string {
	identity = strings.ReplaceAll(identity, string(os.PathSeparator), "_")
	return filepath.Base(identity)
}
