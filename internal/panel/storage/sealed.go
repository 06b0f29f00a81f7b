package storage

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/bedirhantong/renart-vendor-panel/pkg/cryptox"
)

// sealInfo separates the storage key from any other use of the same
// passphrase.
const sealInfo = "renart-panel/storage/v1"

// Sealed encrypts values at rest. Each value is bound to its key, so a
// sealed token copied under another key fails to open.
type Sealed struct {
	inner  KV
	sealer *cryptox.Sealer
}

// NewSealed wraps inner with AES-256-GCM using a key derived from
// passphrase.
func NewSealed(inner KV, passphrase string) (*Sealed, error) {
	s, err := cryptox.NewSealer([]byte(passphrase), sealInfo)
	if err != nil {
		return nil, fmt.Errorf("storage: sealer: %w", err)
	}
	return &Sealed{inner: inner, sealer: s}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	raw, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	plain, err := s.sealer.Open(sealed, []byte(key))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return string(plain), nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	enc, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, enc)
}

func (s *Sealed) SetMany(ctx context.Context, values map[string]string) error {
	out := make(map[string]string, len(values))
	for k, v := range values {
		enc, err := s.seal(k, v)
		if err != nil {
			return err
		}
		out[k] = enc
	}
	return s.inner.SetMany(ctx, out)
}

func (s *Sealed) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}

func (s *Sealed) Close() error { return s.inner.Close() }

func (s *Sealed) seal(key, value string) (string, error) {
	b, err := s.sealer.Seal([]byte(value), []byte(key))
	if err != nil {
		return "", fmt.Errorf("storage: seal %s: %w", key, err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
