package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/ports"
)

// envelopePrefix marks a token whose text is an encrypted Output.
const envelopePrefix = "enc:v1:"

// ErrNotEncrypted is returned when a stored record has no encrypted envelope.
var ErrNotEncrypted = errors.New("record is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

// Validate checks key sizes.
func (c EncryptionConfig) Validate() error {
	if len(c.ActiveKey) != 32 {
		return fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(c.ActiveKey))
	}
	for i, k := range c.FallbackKeys {
		if len(k) != 32 {
			return fmt.Errorf("fallback key %d must be 32 bytes (AES-256), got %d", i, len(k))
		}
	}
	return nil
}

type encryptionMiddleware struct {
	next   ports.OutputStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts each record's
// tokens using AES-GCM. Page, scene, language and storage ids stay readable
// so the wrapped store can still index them. It panics on an invalid key;
// call EncryptionConfig.Validate first when keys come from configuration.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if err := config.Validate(); err != nil {
		panic(err.Error())
	}
	return func(next ports.OutputStore) ports.OutputStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, rec *domain.Record) error {
	plainText, err := json.Marshal(rec.Output)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt output: %w", err)
	}

	envelope := *rec
	envelope.Output = domain.Output{{
		Text:       envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext),
		DurationMs: domain.UnknownDuration,
	}}
	return m.next.Save(ctx, &envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, page string, scene int, language string) (*domain.Record, error) {
	envelope, err := m.next.Load(ctx, page, scene, language)
	if err != nil {
		return nil, err
	}
	return m.open(envelope)
}

func (m *encryptionMiddleware) List(ctx context.Context, page string) ([]*domain.Record, error) {
	envelopes, err := m.next.List(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Record, 0, len(envelopes))
	for _, env := range envelopes {
		rec, err := m.open(env)
		if err != nil {
			return nil, fmt.Errorf("scene %d (%s): %w", env.Scene, env.Language, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, page string) error {
	return m.next.Delete(ctx, page)
}

func (m *encryptionMiddleware) open(envelope *domain.Record) (*domain.Record, error) {
	// Fail secure: plain records are not passed through.
	if len(envelope.Output) != 1 || !strings.HasPrefix(envelope.Output[0].Text, envelopePrefix) {
		return nil, ErrNotEncrypted
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(envelope.Output[0].Text, envelopePrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt output: %w", err)
	}

	rec := *envelope
	rec.Output = nil
	if err := json.Unmarshal(plainText, &rec.Output); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted output: %w", err)
	}
	return &rec, nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
