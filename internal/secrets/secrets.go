// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads OpenReview credentials from a directory of
// plain-text key files: openreview-username and openreview-password, one
// trimmed value per file.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	usernameKey = "openreview-username"
	passwordKey = "openreview-password"
)

// Credentials are the optional OpenReview login. Public venues work
// anonymously, so empty fields are fine.
type Credentials struct {
	Username string
	Password string
}

// IsZero reports whether no credential was found.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

// Load reads the credential key files from dir. A missing directory or
// missing key files are not errors; the corresponding fields stay empty.
// An unreadable file produces a warning on stderr but does not abort.
func Load(dir string) Credentials {
	return Credentials{
		Username: readKey(dir, usernameKey),
		Password: readKey(dir, passwordKey),
	}
}

func readKey(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}
