package store

import (
	"encoding/json"
	"sort"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/proctor/internal/models"
)

// BuildFunc assembles a report from a session and its event snapshot.
type BuildFunc func(
	sess *models.Session,
	events []models.ViolationEvent,
) (*models.IntegrityReport, error)

// BuildReport snapshots the events of a session, passes them to build and
// upserts the result keyed by session id, all in one transaction.
func (c *Client) BuildReport(
	sessionID string,
	build BuildFunc,
) (*models.IntegrityReport, error) {
	var r *models.IntegrityReport

	err := c.Update(func(tx *bolt.Tx) error {
		var sess models.Session

		ok, err := getJSON(tx.Bucket([]byte(sessionBucket)), sessionID, &sess)
		if err != nil {
			return err
		}

		if !ok {
			return ErrSessionNotFound.Fmt(sessionID)
		}

		events, err := readEvents(tx, sessionID)
		if err != nil {
			return err
		}

		r, err = build(&sess, events)
		if err != nil {
			return err
		}

		return putJSON(tx.Bucket([]byte(reportBucket)), []byte(sessionID), r)
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// GetReport retrieves the report of a session.
func (c *Client) GetReport(sessionID string) (*models.IntegrityReport, error) {
	var r models.IntegrityReport

	err := c.View(func(tx *bolt.Tx) error {
		ok, err := getJSON(tx.Bucket([]byte(reportBucket)), sessionID, &r)
		if err != nil {
			return err
		}

		if !ok {
			return ErrReportNotFound.Fmt(sessionID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// ListReports returns every stored report, most recently generated first.
func (c *Client) ListReports() ([]models.IntegrityReport, error) {
	var reports []models.IntegrityReport

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(reportBucket)).ForEach(func(_, v []byte) error {
			var r models.IntegrityReport

			err := json.Unmarshal(v, &r)
			if err != nil {
				return err
			}

			reports = append(reports, r)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].GeneratedAt.After(reports[j].GeneratedAt)
	})

	return reports, nil
}
