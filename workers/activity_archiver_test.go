// workers/activity_archiver_test.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitwork/models"
)

type memActivity struct {
	entries []models.ActivityLog
	err     error
}

func (m *memActivity) ActivityBetween(start, end time.Time) ([]models.ActivityLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.ActivityLog
	for _, e := range m.entries {
		if !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type memUploader struct {
	objects map[string][]byte
	err     error
}

func (m *memUploader) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if m.err != nil {
		return m.err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = body
	return nil
}

func TestArchiveDay(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	activity := &memActivity{entries: []models.ActivityLog{
		{ID: 1, EventID: "e1", EventType: "bounty_created", CreatedAt: day.Add(2 * time.Hour)},
		{ID: 2, EventID: "e2", EventType: "status_changed", CreatedAt: day.Add(23 * time.Hour)},
		{ID: 3, EventID: "e3", EventType: "bounty_claimed", CreatedAt: day.AddDate(0, 0, 1)},
	}}
	uploader := &memUploader{}

	a := NewActivityArchiver(activity, uploader)
	require.NoError(t, a.ArchiveDay(context.Background(), day.Add(5*time.Hour)))

	key := a.Prefix + "/2026-03-14.json"
	body, ok := uploader.objects[key]
	require.True(t, ok, "archive stored under the day key")

	var stored []models.ActivityLog
	require.NoError(t, json.Unmarshal(body, &stored))
	require.Len(t, stored, 2, "only the target day's rows are exported")
	assert.Equal(t, "e1", stored[0].EventID)
	assert.Equal(t, "e2", stored[1].EventID)
}

func TestArchiveDaySkipsEmptyDays(t *testing.T) {
	uploader := &memUploader{}
	a := NewActivityArchiver(&memActivity{}, uploader)

	require.NoError(t, a.ArchiveDay(context.Background(), time.Now().UTC()))
	assert.Empty(t, uploader.objects)
}

func TestArchiveDayPropagatesFailures(t *testing.T) {
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	activity := &memActivity{entries: []models.ActivityLog{
		{ID: 1, EventID: "e1", EventType: "bounty_created", CreatedAt: day},
	}}

	t.Run("read failure", func(t *testing.T) {
		a := NewActivityArchiver(&memActivity{err: errors.New("db down")}, &memUploader{})
		assert.Error(t, a.ArchiveDay(context.Background(), day))
	})

	t.Run("upload failure", func(t *testing.T) {
		a := NewActivityArchiver(activity, &memUploader{err: errors.New("r2 down")})
		assert.Error(t, a.ArchiveDay(context.Background(), day))
	})
}
