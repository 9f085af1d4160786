package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

const codeSecretBytes = 20 // RFC 4226 recommended minimum secret length

// GenerateChallengeCode derives a 6-digit one-time code from a fresh random
// HOTP secret and counter. Each call yields an independent code; the secret
// is discarded, so the code itself is the only credential and callers should
// persist a fingerprint of it (see FingerprintToken).
func GenerateChallengeCode() (string, error) {
	secret := make([]byte, codeSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate code secret: %w", err)
	}

	var counterBuf [8]byte
	if _, err := rand.Read(counterBuf[:]); err != nil {
		return "", fmt.Errorf("failed to generate code counter: %w", err)
	}
	counter := binary.BigEndian.Uint64(counterBuf[:])

	code, err := hotp.GenerateCodeCustom(
		base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret),
		counter,
		hotp.ValidateOpts{
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to derive challenge code: %w", err)
	}
	return code, nil
}
