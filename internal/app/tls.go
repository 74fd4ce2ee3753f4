package app

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

const (
	certSerialNumber = 1
	certYears        = 1
	rsaKeyLen        = 4096
	certsPerm        = 0600
	certsDirPerm     = 0750
)

// CreateCertificates generates a self-signed certificate/key pair for local
// HTTPS serving at the configured paths.
func (a *App) CreateCertificates() error {
	cert := &x509.Certificate{
		SerialNumber: big.NewInt(certSerialNumber),
		Subject: pkix.Name{
			Organization: []string{"Geofeed"},
		},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().AddDate(certYears, 0, 0),
		SubjectKeyId: []byte{1, 2, 3, 4, 6},
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, rsaKeyLen)
	if err != nil {
		return fmt.Errorf("error generating RSA key: %w", err)
	}

	certBytes, err := x509.CreateCertificate(rand.Reader, cert, cert, &privateKey.PublicKey, privateKey)
	if err != nil {
		return fmt.Errorf("error creating certificate: %w", err)
	}

	if err := writePEM(a.config.TLSCertPath, "CERTIFICATE", certBytes); err != nil {
		return err
	}

	return writePEM(a.config.TLSKeyPath, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(privateKey))
}

func writePEM(path string, blockType string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), certsDirPerm); err != nil {
		return fmt.Errorf("error creating certs dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, certsPerm)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := pem.Encode(file, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		return fmt.Errorf("error encoding %s: %w", blockType, err)
	}

	return nil
}
