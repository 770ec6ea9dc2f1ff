package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/scitokens/x509-token-issuer/pkg/user"
)

const (
	// DirName is the directory under ~/.config holding the configuration.
	DirName = "x509-token-issuer"
	// FileName is the default configuration file.
	FileName = "config.yaml"
)

func FilePath(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if strings.HasPrefix(name, "./") {
		return filepath.Abs(name)
	}

	homeDir, err := user.HomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", DirName, name), nil
}

func readFileOrEmpty(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return buf, nil
}
