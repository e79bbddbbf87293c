// workers/deposit_monitor.go
package workers

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"gitwork/models"
	"gitwork/services"
)

// DepositMonitor polls pending_deposit bounties on a fixed interval and feeds
// results into the lifecycle engine, exactly as the webhook path would. It is
// safe to run concurrently with webhook-triggered transitions: the engine's
// guarded updates break any race.
type DepositMonitor struct {
	Bounties *services.BountyService
	Interval time.Duration

	sched gocron.Scheduler
}

func NewDepositMonitor(bounties *services.BountyService, interval time.Duration) *DepositMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &DepositMonitor{Bounties: bounties, Interval: interval}
}

// Start schedules the polling loop. The first pass runs immediately.
func (m *DepositMonitor) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(m.Interval),
		gocron.NewTask(func() { m.CheckPendingDeposits(ctx) }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	sched.Start()
	m.sched = sched
	log.Printf("✅ Deposit monitor started (checking every %s)", m.Interval)
	return nil
}

// Stop halts the timer. In-flight checks run to completion.
func (m *DepositMonitor) Stop() {
	if m.sched == nil {
		return
	}
	if err := m.sched.Shutdown(); err != nil {
		log.Printf("❌ Error stopping deposit monitor: %v", err)
	}
	log.Println("⏹️  Deposit monitor stopped")
}

// CheckPendingDeposits runs one polling pass. A failing oracle call for one
// bounty never aborts the batch for the others.
func (m *DepositMonitor) CheckPendingDeposits(ctx context.Context) {
	pending, err := m.Bounties.PendingDeposits()
	if err != nil {
		log.Printf("❌ Failed to list pending deposits: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Printf("🔍 Checking %d pending deposit(s)...", len(pending))
	for i := range pending {
		if ctx.Err() != nil {
			return
		}
		if err := m.checkBounty(ctx, &pending[i]); err != nil {
			log.Printf("❌ Error checking bounty %d: %v", pending[i].ID, err)
		}
	}
}

func (m *DepositMonitor) checkBounty(ctx context.Context, b *models.Bounty) error {
	check, err := m.Bounties.VerifyDeposit(ctx, b)
	if err != nil {
		return err
	}

	if check.Satisfied {
		_, err := m.Bounties.ConfirmDeposit(ctx, b.ID)
		return err
	}

	if check.WrongAssetBalance(b.Currency) {
		m.Bounties.ReportDepositMismatch(ctx, b, check)
	}
	return nil
}
