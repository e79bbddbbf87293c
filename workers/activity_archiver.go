// workers/activity_archiver.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gosimple/slug"

	"gitwork/models"
)

// ActivityReader is the slice of the ledger the archiver needs.
type ActivityReader interface {
	ActivityBetween(start, end time.Time) ([]models.ActivityLog, error)
}

// ObjectUploader is the blob-storage capability the archiver writes to.
type ObjectUploader interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// ActivityArchiver exports each day's activity-log rows to object storage
// shortly after midnight UTC. Purely observational: a failed export never
// touches bounty state and the same day is retried on the next run.
type ActivityArchiver struct {
	Activity ActivityReader
	Uploader ObjectUploader
	Prefix   string

	sched gocron.Scheduler
}

func NewActivityArchiver(activity ActivityReader, uploader ObjectUploader) *ActivityArchiver {
	prefix := os.Getenv("ARCHIVE_PREFIX")
	if prefix == "" {
		prefix = "gitwork activity"
	}
	return &ActivityArchiver{Activity: activity, Uploader: uploader, Prefix: slug.Make(prefix)}
}

func (a *ActivityArchiver) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.CronJob("15 0 * * *", false),
		gocron.NewTask(func() {
			day := time.Now().UTC().AddDate(0, 0, -1)
			if err := a.ArchiveDay(ctx, day); err != nil {
				log.Printf("❌ Activity archive failed for %s: %v", day.Format("2006-01-02"), err)
			}
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	a.sched = sched
	log.Println("✅ Activity archiver started (daily at 00:15 UTC)")
	return nil
}

func (a *ActivityArchiver) Stop() {
	if a.sched == nil {
		return
	}
	if err := a.sched.Shutdown(); err != nil {
		log.Printf("❌ Error stopping activity archiver: %v", err)
	}
}

// ArchiveDay exports the activity rows of one UTC day as a JSON object.
func (a *ActivityArchiver) ArchiveDay(ctx context.Context, day time.Time) error {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	entries, err := a.Activity.ActivityBetween(start, end)
	if err != nil {
		return fmt.Errorf("failed to read activity log: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}

	key := fmt.Sprintf("%s/%s.json", a.Prefix, start.Format("2006-01-02"))
	if err := a.Uploader.PutObject(ctx, key, payload, "application/json"); err != nil {
		return err
	}

	log.Printf("📦 Archived %d activity entr(ies) to %s", len(entries), key)
	return nil
}
