package history

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Parameters for the password-derived key. These match the payloads the
// browser client wrote, so blobs stay portable between the two.
const (
	kdfIterations = 250_000
	saltLength    = 16
	nonceLength   = 12
	keyLength     = 32
)

// envelope is the stored ciphertext wrapper: salt, nonce (iv), ciphertext,
// all base64, plus a format version.
type envelope struct {
	Salt    string `json:"s"`
	IV      string `json:"i"`
	Cipher  string `json:"c"`
	Version int    `json:"v"`
}

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, kdfIterations, keyLength, sha256.New)
}

// EncryptJSON serializes v and encrypts it with a key derived from the
// password. A fresh salt and nonce are drawn for every call.
func EncryptJSON(v any, password string) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal history payload: %w", err)
	}

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	out, err := json.Marshal(envelope{
		Salt:    base64.StdEncoding.EncodeToString(salt),
		IV:      base64.StdEncoding.EncodeToString(nonce),
		Cipher:  base64.StdEncoding.EncodeToString(ciphertext),
		Version: 1,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecryptJSON reverses EncryptJSON. A wrong password surfaces as an error
// from the authenticated cipher; callers degrade that to "no history".
func DecryptJSON(payload, password string, out any) error {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return fmt.Errorf("malformed history envelope: %w", err)
	}
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return err
	}
	nonce, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return err
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.Cipher)
	if err != nil {
		return err
	}
	// gcm.Open panics on a wrong-size nonce, so a tampered envelope must be
	// rejected before it reaches the cipher.
	if len(salt) != saltLength {
		return fmt.Errorf("malformed history envelope: salt is %d bytes", len(salt))
	}

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}
	if len(nonce) != gcm.NonceSize() {
		return fmt.Errorf("malformed history envelope: nonce is %d bytes", len(nonce))
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("decryption failed: %w", err)
	}
	return json.Unmarshal(plaintext, out)
}
