package fota

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

var pemMarker = []byte("-----BEGIN")

// LoadCertificateDER reads the certificate at path, converting it to DER if
// it is PEM encoded.
func LoadCertificateDER(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if !bytes.Contains(data, pemMarker) {
		return data, nil
	}

	der, err := pemToDER(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if der == nil {
		return nil, ErrNoCertificate{Path: path}
	}
	return der, nil
}

// pemToDER returns the first CERTIFICATE block in data, or nil if there is
// none.
func pemToDER(data []byte) ([]byte, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, nil
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		return cert.Raw, nil
	}
}
