package store

import (
	"encoding/json"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/proctor/internal/models"
)

// SessionFilter narrows ListSessions. Zero values match everything.
type SessionFilter struct {
	Since  time.Time
	Until  time.Time
	Status models.Status
}

func (f SessionFilter) match(s *models.Session) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}

	if !f.Since.IsZero() && s.CreatedAt.Before(f.Since) {
		return false
	}

	if !f.Until.IsZero() && s.CreatedAt.After(f.Until) {
		return false
	}

	return true
}

// CreateSession inserts a new session record.
func (c *Client) CreateSession(sess *models.Session) error {
	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		if b.Get([]byte(sess.ID)) != nil {
			return ErrSessionExists.Fmt(sess.ID)
		}

		return putJSON(b, []byte(sess.ID), sess)
	})
}

// GetSession retrieves a session by id.
func (c *Client) GetSession(id string) (*models.Session, error) {
	var sess models.Session

	err := c.View(func(tx *bolt.Tx) error {
		ok, err := getJSON(tx.Bucket([]byte(sessionBucket)), id, &sess)
		if err != nil {
			return err
		}

		if !ok {
			return ErrSessionNotFound.Fmt(id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// UpdateSession loads the session, applies fn and writes the result back in
// a single read-write transaction. If fn returns an error nothing is written.
func (c *Client) UpdateSession(
	id string,
	fn func(sess *models.Session) error,
) (*models.Session, error) {
	var sess models.Session

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		ok, err := getJSON(b, id, &sess)
		if err != nil {
			return err
		}

		if !ok {
			return ErrSessionNotFound.Fmt(id)
		}

		err = fn(&sess)
		if err != nil {
			return err
		}

		return putJSON(b, []byte(id), &sess)
	})
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// ListSessions returns the sessions matching filter, newest first.
func (c *Client) ListSessions(filter SessionFilter) ([]models.Session, error) {
	var sessions []models.Session

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).ForEach(func(_, v []byte) error {
			var sess models.Session

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return err
			}

			if filter.match(&sess) {
				sessions = append(sessions, sess)
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	return sessions, nil
}
