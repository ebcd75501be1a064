package geo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.ErrorIs(t, err, errOpenDatabase)
}

func TestCountryInvalidIP(t *testing.T) {
	r := &Reader{}

	for _, ip := range []string{"", "localhost", "300.1.1.1"} {
		_, err := r.Country(ip)
		assert.ErrorIs(t, err, errInvalidIP, ip)
	}
}
