// Package geo resolves candidate IP addresses to ISO country codes using a
// MaxMind database.
package geo

import (
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/ayoisaiah/proctor/internal/apperr"
)

var (
	errOpenDatabase = &apperr.Error{
		Message: "unable to open geoip database %s",
		Kind:    apperr.KindInternal,
	}

	errInvalidIP = &apperr.Error{
		Message: "invalid ip address %q",
		Kind:    apperr.KindValidation,
	}
)

// Reader looks up countries in an mmdb file.
type Reader struct {
	db *geoip2.Reader
}

// Open opens the database at path.
func Open(path string) (*Reader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, errOpenDatabase.Fmt(path).Wrap(err)
	}

	return &Reader{db: db}, nil
}

// Country returns the ISO code of the country ip is registered in. It is
// empty for addresses the database has no record of.
func (r *Reader) Country(ip string) (string, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", errInvalidIP.Fmt(ip)
	}

	rec, err := r.db.Country(addr)
	if err != nil {
		return "", err
	}

	return rec.Country.IsoCode, nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}
