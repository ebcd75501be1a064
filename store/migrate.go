package store

import (
	"encoding/binary"

	"go.etcd.io/bbolt"
)

const schemaVersion = 1

var schemaKey = []byte("schema_version")

// migrate records the schema version on a fresh database and refuses to
// touch a database written by a newer release.
func (c *Client) migrate(tx *bbolt.Tx) error {
	meta := tx.Bucket([]byte(metaBucket))

	v := meta.Get(schemaKey)
	if v == nil {
		return meta.Put(schemaKey, itob(schemaVersion))
	}

	current := binary.BigEndian.Uint64(v)
	if current > schemaVersion {
		return errSchemaTooNew.Fmt(current, schemaVersion)
	}

	return nil
}
