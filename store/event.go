package store

import (
	"encoding/json"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/proctor/internal/models"
)

// AppendEvent stores ev under its session. The owning session is loaded and
// passed to check inside the write transaction, and the event is stamped
// with now() there too, so the order of successful appends matches the
// order of their timestamps.
func (c *Client) AppendEvent(
	ev *models.ViolationEvent,
	check func(sess *models.Session) error,
	now func() time.Time,
) error {
	return c.Update(func(tx *bolt.Tx) error {
		var sess models.Session

		ok, err := getJSON(tx.Bucket([]byte(sessionBucket)), ev.SessionID, &sess)
		if err != nil {
			return err
		}

		if !ok {
			return ErrSessionNotFound.Fmt(ev.SessionID)
		}

		if check != nil {
			err = check(&sess)
			if err != nil {
				return err
			}
		}

		b, err := tx.Bucket([]byte(eventBucket)).
			CreateBucketIfNotExists([]byte(ev.SessionID))
		if err != nil {
			return err
		}

		ts := now()

		// a clock step backwards must not reorder the log
		if k, v := b.Cursor().Last(); k != nil {
			var last models.ViolationEvent

			err = json.Unmarshal(v, &last)
			if err != nil {
				return err
			}

			if ts.Before(last.Timestamp) {
				ts = last.Timestamp
			}
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		ev.Seq = seq
		ev.Timestamp = ts

		return putJSON(b, itob(seq), ev)
	})
}

// ListEvents returns the events of a session ordered by timestamp, ties
// broken by insertion order.
func (c *Client) ListEvents(sessionID string) ([]models.ViolationEvent, error) {
	var events []models.ViolationEvent

	err := c.View(func(tx *bolt.Tx) error {
		var err error

		events, err = readEvents(tx, sessionID)

		return err
	})

	return events, err
}

func readEvents(tx *bolt.Tx, sessionID string) ([]models.ViolationEvent, error) {
	events := []models.ViolationEvent{}

	b := tx.Bucket([]byte(eventBucket)).Bucket([]byte(sessionID))
	if b == nil {
		return events, nil
	}

	err := b.ForEach(func(_, v []byte) error {
		var ev models.ViolationEvent

		err := json.Unmarshal(v, &ev)
		if err != nil {
			return err
		}

		events = append(events, ev)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Seq < events[j].Seq
		}

		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	return events, nil
}
