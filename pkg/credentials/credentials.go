// Package credentials turns an X.509 identity on disk into something the
// HTTPS transport can present, and finds the identity a grid user would
// expect to be used when none is given.
package credentials

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	hostCertFile = "/etc/grid-security/hostcert.pem"
	hostKeyFile  = "/etc/grid-security/hostkey.pem"
)

// Identity names the PEM files holding a client certificate and its key.
// The zero value is the anonymous identity.
//
// When KeyFile is empty, CertFile is expected to hold both the certificate
// chain and the key, which is how proxy certificates are stored.
type Identity struct {
	CertFile string
	KeyFile  string
}

// IsAnonymous reports whether no certificate is configured.
func (id Identity) IsAnonymous() bool {
	return id.CertFile == "" && id.KeyFile == ""
}

func (id Identity) String() string {
	if id.IsAnonymous() {
		return "anonymous"
	}
	if id.KeyFile == "" || id.KeyFile == id.CertFile {
		return id.CertFile
	}
	return id.CertFile + " (key " + id.KeyFile + ")"
}

// Load reads the identity from disk. It returns nil, nil for the anonymous
// identity.
func Load(id Identity) (*tls.Certificate, error) {
	if id.IsAnonymous() {
		return nil, nil
	}
	if id.CertFile == "" {
		return nil, errors.New("a key file was given without a certificate file")
	}

	certPEM, err := os.ReadFile(id.CertFile)
	if err != nil {
		return nil, fmt.Errorf("reading certificate: %w", err)
	}

	keyPEM := certPEM
	if id.KeyFile != "" && id.KeyFile != id.CertFile {
		keyPEM, err = os.ReadFile(id.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading private key: %w", err)
		}
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", id, err)
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("no certificate found in %s", id.CertFile)
	}
	cert.Leaf, err = x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("parsing leaf certificate of %s: %w", id.CertFile, err)
	}

	return &cert, nil
}

// DefaultIdentity finds the identity to use when the caller gave none, using
// the usual grid conventions:
//
//  1. X509_USER_PROXY
//  2. X509_USER_CERT (and X509_USER_KEY)
//  3. the host certificate, when running as root
//  4. /tmp/x509up_u<uid>
//
// Files from steps 3 and 4 are only used when they exist. The anonymous
// identity is returned when nothing matches.
func DefaultIdentity() Identity {
	return defaultIdentity(os.Getenv, os.Geteuid(), fileExists)
}

func defaultIdentity(getenv func(string) string, euid int, exists func(string) bool) Identity {
	if proxy := getenv("X509_USER_PROXY"); proxy != "" {
		return Identity{CertFile: proxy, KeyFile: proxy}
	}
	if cert := getenv("X509_USER_CERT"); cert != "" {
		key := getenv("X509_USER_KEY")
		if key == "" {
			key = cert
		}
		return Identity{CertFile: cert, KeyFile: key}
	}
	if euid == 0 && exists(hostCertFile) && exists(hostKeyFile) {
		return Identity{CertFile: hostCertFile, KeyFile: hostKeyFile}
	}
	if euid >= 0 {
		proxy := "/tmp/x509up_u" + strconv.Itoa(euid)
		if exists(proxy) {
			return Identity{CertFile: proxy, KeyFile: proxy}
		}
	}
	return Identity{}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
