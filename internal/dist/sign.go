package dist

import (
	"fmt"
	"os"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
)

// Signer produces detached armored signatures with a private key.
type Signer struct {
	ring *crypto.KeyRing
}

// NewSigner loads an armored private key from keyPath. Locked keys are
// rejected; decrypt the key before pointing cannyup at it.
func NewSigner(keyPath string) (*Signer, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read signing key: %w", err)
	}

	key, err := crypto.NewKeyFromArmored(string(data))
	if err != nil {
		return nil, fmt.Errorf("cannot parse signing key: %w", err)
	}
	if !key.IsPrivate() {
		return nil, fmt.Errorf("signing key at %s is a public key", keyPath)
	}
	locked, err := key.IsLocked()
	if err != nil {
		return nil, fmt.Errorf("cannot inspect signing key: %w", err)
	}
	if locked {
		return nil, fmt.Errorf("signing key at %s is passphrase-protected; export an unlocked key", keyPath)
	}

	ring, err := crypto.NewKeyRing(key)
	if err != nil {
		return nil, fmt.Errorf("cannot build signing keyring: %w", err)
	}
	return &Signer{ring: ring}, nil
}

// SignFile writes a detached armored signature next to path and
// returns the signature path.
func (s *Signer) SignFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s for signing: %w", path, err)
	}

	sig, err := s.ring.SignDetached(crypto.NewPlainMessage(data))
	if err != nil {
		return "", fmt.Errorf("signing %s failed: %w", path, err)
	}
	armored, err := sig.GetArmored()
	if err != nil {
		return "", fmt.Errorf("cannot armor signature: %w", err)
	}

	sigPath := path + ".asc"
	if err := os.WriteFile(sigPath, []byte(armored), 0644); err != nil {
		return "", fmt.Errorf("cannot write signature: %w", err)
	}
	return sigPath, nil
}
