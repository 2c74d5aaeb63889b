package history

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindscreen/internal/models"
)

func sampleResult(id string, probability float64) models.AssessmentResult {
	return models.AssessmentResult{
		AssessmentID: id,
		RiskLevel:    models.RiskMedium,
		Probability:  probability,
		SubScores:    models.CognitiveScores{MemoryScore: 1.5, AttentionScore: 3},
		GeneratedAt:  time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC),
	}
}

func TestPlainStoreSaveIsIdempotent(t *testing.T) {
	store := NewPlainStore(t.TempDir())
	ctx := context.Background()

	result := sampleResult("a1", 0.4)
	require.NoError(t, store.Save(ctx, "anon_abc", result))
	require.NoError(t, store.Save(ctx, "anon_abc", result))
	require.NoError(t, store.Save(ctx, "anon_abc", result))

	loaded, err := store.Load(ctx, "anon_abc")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "a1", loaded[0].AssessmentID)
}

func TestPlainStorePreservesOrder(t *testing.T) {
	store := NewPlainStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "anon_abc", sampleResult("a1", 0.4)))
	require.NoError(t, store.Save(ctx, "anon_abc", sampleResult("a2", 0.6)))

	loaded, err := store.Load(ctx, "anon_abc")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "a1", loaded[0].AssessmentID)
	assert.Equal(t, "a2", loaded[1].AssessmentID)
}

func TestPlainStoreEmptyForUnknownIdentity(t *testing.T) {
	store := NewPlainStore(t.TempDir())
	loaded, err := store.Load(context.Background(), "anon_nobody")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestEncryptedStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewEncryptedStore(dir, "correct horse battery staple")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "anon_abc", sampleResult("a1", 0.4)))
	require.NoError(t, store.Save(ctx, "anon_abc", sampleResult("a1", 0.4)))
	require.NoError(t, store.Save(ctx, "anon_abc", sampleResult("a2", 0.6)))

	loaded, err := store.Load(ctx, "anon_abc")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.InDelta(t, 0.4, loaded[0].Probability, 1e-9)

	// The file on disk must be an opaque envelope, not plaintext JSON.
	data, err := os.ReadFile(filepath.Join(dir, "ms_history_e_anon_abc.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "assessmentId")
	assert.Contains(t, string(data), `"v":1`)
}

func TestEncryptedStoreWrongPassword(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, NewEncryptedStore(dir, "right").Save(ctx, "anon_abc", sampleResult("a1", 0.4)))

	loaded, err := NewEncryptedStore(dir, "wrong").Load(ctx, "anon_abc")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestNamespacesNeverCollide(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	plain := NewPlainStore(dir)
	encrypted := NewEncryptedStore(dir, "secret")

	require.NoError(t, plain.Save(ctx, "anon_abc", sampleResult("p1", 0.3)))
	require.NoError(t, encrypted.Save(ctx, "anon_abc", sampleResult("e1", 0.7)))

	fromPlain, err := plain.Load(ctx, "anon_abc")
	require.NoError(t, err)
	fromEncrypted, err := encrypted.Load(ctx, "anon_abc")
	require.NoError(t, err)

	require.Len(t, fromPlain, 1)
	require.Len(t, fromEncrypted, 1)
	assert.Equal(t, "p1", fromPlain[0].AssessmentID)
	assert.Equal(t, "e1", fromEncrypted[0].AssessmentID)
}

func TestSanitizeKeepsFilesInDir(t *testing.T) {
	store := NewPlainStore(t.TempDir())
	path := store.path("../../etc/passwd")
	assert.Equal(t, store.dir, filepath.Dir(path))
}

func TestChainFallsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	// A store rooted at an unwritable path fails; the chain must fall
	// through to the working one.
	broken := NewPlainStore(filepath.Join(dir, "blocked"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocked"), []byte("not a dir"), 0o600))
	working := NewPlainStore(filepath.Join(dir, "ok"))

	chain := NewChain(zap.NewNop(), broken, working)
	require.NoError(t, chain.Save(ctx, "anon_abc", sampleResult("a1", 0.4)))

	loaded, err := working.Load(ctx, "anon_abc")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
}

func TestCryptoRejectsTamperedBlob(t *testing.T) {
	payload, err := EncryptJSON([]string{"a", "b"}, "pw")
	require.NoError(t, err)

	var out []string
	require.NoError(t, DecryptJSON(payload, "pw", &out))
	assert.Equal(t, []string{"a", "b"}, out)

	tampered := payload[:len(payload)-20] + payload[len(payload)-19:]
	assert.Error(t, DecryptJSON(tampered, "pw", &out))
}

// malformedEnvelope builds a syntactically valid envelope whose salt and
// nonce have the wrong sizes.
func malformedEnvelope(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(envelope{
		Salt:    base64.StdEncoding.EncodeToString([]byte("tiny")),
		IV:      base64.StdEncoding.EncodeToString([]byte("short")),
		Cipher:  base64.StdEncoding.EncodeToString([]byte("garbage")),
		Version: 1,
	})
	require.NoError(t, err)
	return string(raw)
}

func TestCryptoRejectsMalformedEnvelope(t *testing.T) {
	var out []string
	assert.Error(t, DecryptJSON(malformedEnvelope(t), "pw", &out))

	// Wrong nonce size alone must also error rather than panic.
	salt := base64.StdEncoding.EncodeToString(make([]byte, saltLength))
	raw, err := json.Marshal(envelope{
		Salt:    salt,
		IV:      base64.StdEncoding.EncodeToString([]byte("short")),
		Cipher:  base64.StdEncoding.EncodeToString([]byte("garbage")),
		Version: 1,
	})
	require.NoError(t, err)
	assert.Error(t, DecryptJSON(string(raw), "pw", &out))
}

func TestEncryptedStoreDegradesOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	path := filepath.Join(dir, "ms_history_e_anon_x.json")
	require.NoError(t, os.WriteFile(path, []byte(malformedEnvelope(t)), 0o600))

	store := NewEncryptedStore(dir, "pw")
	loaded, err := store.Load(ctx, "anon_x")
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// Saving over the corrupt blob starts a fresh history.
	require.NoError(t, store.Save(ctx, "anon_x", sampleResult("a1", 0.4)))
	loaded, err = store.Load(ctx, "anon_x")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
}
