package credentials

import (
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
)

// LoadCAPool returns the system roots extended with every PEM certificate
// found directly in dir, the layout of /etc/grid-security/certificates.
// Files that hold no certificate (signing policies, CRL pointers) are skipped.
// An empty dir returns the system roots unchanged.
func LoadCAPool(dir string) (*x509.CertPool, error) {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if dir == "" {
		return pool, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading CA directory: %w", err)
	}

	added := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		buf, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if pool.AppendCertsFromPEM(buf) {
			added++
		}
	}
	if added == 0 {
		return nil, fmt.Errorf("no CA certificates found in %s", dir)
	}

	return pool, nil
}
