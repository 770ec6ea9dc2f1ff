package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/scitokens/x509-token-issuer/pkg/credentials"
)

// Environment variables read on top of the configuration file.
const (
	EnvUserProxy          = "X509_USER_PROXY"
	EnvUserCert           = "X509_USER_CERT"
	EnvUserKey            = "X509_USER_KEY"
	EnvCertDir            = "X509_CERT_DIR"
	EnvIssuer             = "X509_TOKEN_ISSUER"
	EnvMacaroonValidity   = "X509_MACAROON_VALIDITY"
	EnvMacaroonActivities = "X509_MACAROON_ACTIVITIES"
)

// Config holds the defaults for every command. Command-line flags win over
// the environment, which wins over the file.
type Config struct {
	Issuer     string        `yaml:"issuer,omitempty"`
	Cert       string        `yaml:"cert,omitempty"`
	Key        string        `yaml:"key,omitempty"`
	CADir      string        `yaml:"ca_dir,omitempty"`
	Validity   int           `yaml:"validity,omitempty"`
	Activities []string      `yaml:"activities,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
}

// Load reads the configuration at path, or the default location when path is
// empty, then applies the environment. A missing default file is not an
// error; a missing explicit one is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	var fullPath string
	var err error
	if explicit {
		fullPath, err = filepath.Abs(path)
	} else {
		fullPath, err = FilePath(path)
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "locating configuration")
	}

	var buf []byte
	if explicit {
		buf, err = os.ReadFile(fullPath)
	} else {
		buf, err = readFileOrEmpty(fullPath)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading configuration %s", fullPath)
	}

	cfg, err := Parse(buf)
	if err != nil {
		return Config{}, errors.Wrapf(err, "parsing configuration %s", fullPath)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Parse decodes a YAML configuration. Empty input is the zero Config.
func Parse(buf []byte) (Config, error) {
	var cfg Config
	if len(strings.TrimSpace(string(buf))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if proxy := getenv(EnvUserProxy); proxy != "" {
		c.Cert, c.Key = proxy, proxy
	} else if cert := getenv(EnvUserCert); cert != "" {
		c.Cert, c.Key = cert, getenv(EnvUserKey)
	}
	if dir := getenv(EnvCertDir); dir != "" {
		c.CADir = dir
	}
	if issuer := getenv(EnvIssuer); issuer != "" {
		c.Issuer = issuer
	}
	if v := getenv(EnvMacaroonValidity); v != "" {
		validity, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvMacaroonValidity)
		}
		c.Validity = validity
	}
	if v := getenv(EnvMacaroonActivities); v != "" {
		activities, err := shlex.Split(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvMacaroonActivities)
		}
		c.Activities = activities
	}
	return nil
}

// Identity returns the configured certificate, falling back to the usual grid
// locations when none is configured.
func (c Config) Identity() credentials.Identity {
	if c.Cert == "" && c.Key == "" {
		return credentials.DefaultIdentity()
	}
	return credentials.Identity{CertFile: c.Cert, KeyFile: c.Key}
}
