// Package signer holds caller keypairs and the signed tokens that prove a caller
// controls the ed25519 key behind its address.
package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"

	"ticketescrow/entities"
)

type Keypair struct {
	private ed25519.PrivateKey
}

func Generate() (Keypair, error) {
	_, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, fmt.Errorf("could not generate keypair: %w", err)
	}

	return Keypair{private: private}, nil
}

func FromPrivateKey(private ed25519.PrivateKey) (Keypair, error) {
	if len(private) != ed25519.PrivateKeySize {
		return Keypair{}, fmt.Errorf("private key has %d bytes, expected %d", len(private), ed25519.PrivateKeySize)
	}

	return Keypair{private: private}, nil
}

// Address is the caller identity: the raw ed25519 public key.
func (k Keypair) Address() entities.Address {
	var addr entities.Address
	copy(addr[:], k.private.Public().(ed25519.PublicKey))
	return addr
}

func (k Keypair) PrivateKey() ed25519.PrivateKey {
	return k.private
}

// LoadFile reads a keypair stored as a JSON array of the 64 private key bytes.
func LoadFile(path string) (Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Keypair{}, fmt.Errorf("could not read keypair: %w", err)
	}

	var b []byte
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return Keypair{}, fmt.Errorf("could not decode keypair %s: %w", path, err)
	}
	for _, v := range ints {
		if v < 0 || v > 255 {
			return Keypair{}, fmt.Errorf("keypair %s holds %d, not a byte", path, v)
		}
		b = append(b, byte(v))
	}

	return FromPrivateKey(b)
}

func (k Keypair) SaveFile(path string) error {
	ints := make([]int, len(k.private))
	for i, v := range k.private {
		ints[i] = int(v)
	}

	raw, err := json.Marshal(ints)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("could not write keypair: %w", err)
	}

	return nil
}
