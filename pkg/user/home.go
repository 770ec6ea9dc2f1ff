package user

import (
	"errors"
	"os"
	"os/user"
	"runtime"
)

func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err == nil {
		return home, nil
	}

	// HOME can be unset under batch systems and cron; the passwd entry still works.
	if runtime.GOOS != "windows" {
		if u, uerr := user.Current(); uerr == nil && u.HomeDir != "" {
			return u.HomeDir, nil
		}
	}

	return "", errors.Join(err, errors.New("cannot locate the home directory"))
}
