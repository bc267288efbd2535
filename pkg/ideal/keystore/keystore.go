// Package keystore loads merchant and acquirer key material. Values are
// either inline PEM text or paths to PEM, DER or PKCS#12 files.
package keystore

import (
	"bytes"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // iDEAL key names are SHA-1 thumbprints
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/youmark/pkcs8"
	"golang.org/x/crypto/pkcs12"
)

var (
	ErrNoKey         = errors.New("keystore: no private key found")
	ErrNoCert        = errors.New("keystore: no certificate found")
	ErrNotRSA        = errors.New("keystore: private key is not RSA")
	ErrBadPassphrase = errors.New("keystore: wrong passphrase")
)

// IsPEM reports whether value is inline PEM rather than a file path.
func IsPEM(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), "-----BEGIN")
}

func read(value string) ([]byte, error) {
	if IsPEM(value) {
		return []byte(strings.TrimSpace(value)), nil
	}
	data, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("keystore: read %s: %w", value, err)
	}
	return data, nil
}

// LoadCertificate reads the first certificate from a PEM or DER value.
func LoadCertificate(value string) (*x509.Certificate, error) {
	data, err := read(value)
	if err != nil {
		return nil, err
	}
	return ParseCertificate(data)
}

// ParseCertificate decodes a PEM or DER encoded certificate.
func ParseCertificate(data []byte) (*x509.Certificate, error) {
	if !bytes.Contains(data, []byte("-----BEGIN")) {
		cert, err := x509.ParseCertificate(data)
		if err != nil {
			return nil, fmt.Errorf("keystore: parse certificate: %w", err)
		}
		return cert, nil
	}
	for rest := data; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, ErrNoCert
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("keystore: parse certificate: %w", err)
		}
		return cert, nil
	}
}

// LoadPrivateKey reads an RSA private key. Supported are PKCS#1 with
// optional legacy PEM encryption, PKCS#8 plain or encrypted, and PKCS#12
// bundles (non-PEM files).
func LoadPrivateKey(value, passphrase string) (*rsa.PrivateKey, error) {
	data, err := read(value)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(data, passphrase)
}

// ParsePrivateKey decodes key data as described for LoadPrivateKey.
func ParsePrivateKey(data []byte, passphrase string) (*rsa.PrivateKey, error) {
	if !bytes.Contains(data, []byte("-----BEGIN")) {
		key, _, err := pkcs12.Decode(data, passphrase)
		if err != nil {
			return nil, fmt.Errorf("keystore: decode pkcs12: %w", err)
		}
		return asRSA(key)
	}

	for rest := data; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, ErrNoKey
		}
		switch block.Type {
		case "RSA PRIVATE KEY":
			der := block.Bytes
			//nolint:staticcheck // legacy encrypted keys are still issued by acquirers
			if x509.IsEncryptedPEMBlock(block) {
				var err error
				if der, err = x509.DecryptPEMBlock(block, []byte(passphrase)); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrBadPassphrase, err)
				}
			}
			key, err := x509.ParsePKCS1PrivateKey(der)
			if err != nil {
				return nil, fmt.Errorf("keystore: parse pkcs1: %w", err)
			}
			return key, nil
		case "PRIVATE KEY":
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("keystore: parse pkcs8: %w", err)
			}
			return asRSA(key)
		case "ENCRYPTED PRIVATE KEY":
			key, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes, []byte(passphrase))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadPassphrase, err)
			}
			return key, nil
		}
	}
}

func asRSA(key any) (*rsa.PrivateKey, error) {
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return rsaKey, nil
}

// Thumbprint is the uppercase hex SHA-1 of the DER certificate.
func Thumbprint(cert *x509.Certificate) string {
	sum := sha1.Sum(cert.Raw) //nolint:gosec
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
