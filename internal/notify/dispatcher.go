package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"givemap/internal/models"
)

const (
	batchSize   = 50
	baseBackoff = 30 * time.Second
	maxBackoff  = time.Hour
)

// Dispatcher owns the email outbox. Services enqueue inside their own
// transaction; delivery happens afterwards and never fails the caller.
type Dispatcher struct {
	db          *gorm.DB
	mailer      Mailer
	maxAttempts int
	now         func() time.Time

	mu    sync.Mutex
	dirty atomic.Bool
	wg    sync.WaitGroup
}

func NewDispatcher(db *gorm.DB, mailer Mailer, maxAttempts int) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Dispatcher{db: db, mailer: mailer, maxAttempts: maxAttempts, now: func() time.Time { return time.Now().UTC() }}
}

// Enqueue stores msg using tx so it commits or rolls back with the caller.
func (d *Dispatcher) Enqueue(tx *gorm.DB, msg Message) error {
	row := models.OutboundEmail{
		Recipient:     msg.To,
		Subject:       msg.Subject,
		Body:          msg.Body,
		Kind:          msg.Kind,
		Status:        models.EmailPending,
		NextAttemptAt: d.now(),
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

// Kick starts a background flush. Call it after the enqueuing transaction
// has committed.
func (d *Dispatcher) Kick() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if _, err := d.Flush(context.Background()); err != nil {
			logrus.WithError(err).Warn("email outbox flush failed")
		}
	}()
}

// Wait blocks until every kicked flush has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Flush delivers every due pending email and returns how many were sent.
// A call that finds another flush running leaves a request and returns.
// The running flush keeps reloading the outbox until no request is left,
// including one left while it was releasing the lock.
func (d *Dispatcher) Flush(ctx context.Context) (int, error) {
	sent := 0
	d.dirty.Store(true)
	for d.dirty.Load() {
		if !d.mu.TryLock() {
			return sent, nil
		}
		for d.dirty.Swap(false) {
			n, err := d.flushOnce(ctx)
			sent += n
			if err != nil {
				d.mu.Unlock()
				return sent, err
			}
		}
		d.mu.Unlock()
	}
	return sent, nil
}

func (d *Dispatcher) flushOnce(ctx context.Context) (int, error) {
	var due []models.OutboundEmail
	err := d.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", models.EmailPending, d.now()).
		Order("id").
		Limit(batchSize).
		Find(&due).Error
	if err != nil {
		return 0, fmt.Errorf("load outbox: %w", err)
	}

	sent := 0
	for i := range due {
		row := &due[i]
		sendErr := d.mailer.Send(ctx, Message{To: row.Recipient, Subject: row.Subject, Body: row.Body, Kind: row.Kind})
		d.record(row, sendErr)
		if err := d.db.WithContext(ctx).Save(row).Error; err != nil {
			return sent, fmt.Errorf("update outbox row %d: %w", row.ID, err)
		}
		if sendErr == nil {
			sent++
		}
	}
	return sent, nil
}

func (d *Dispatcher) record(row *models.OutboundEmail, sendErr error) {
	now := d.now()
	row.Attempts++
	if sendErr == nil {
		row.Status = models.EmailSent
		row.SentAt = &now
		row.LastError = ""
		return
	}

	row.LastError = sendErr.Error()
	fields := logrus.Fields{"email_id": row.ID, "kind": row.Kind, "attempts": row.Attempts}
	if row.Attempts >= d.maxAttempts {
		row.Status = models.EmailFailed
		logrus.WithError(sendErr).WithFields(fields).Error("giving up on email")
		return
	}
	row.NextAttemptAt = now.Add(backoff(row.Attempts))
	logrus.WithError(sendErr).WithFields(fields).Warn("email send failed, will retry")
}

func backoff(attempts int) time.Duration {
	delay := baseBackoff
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

// Prune deletes delivered emails sent before cutoff.
func (d *Dispatcher) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res := d.db.WithContext(ctx).
		Where("status = ? AND sent_at < ?", models.EmailSent, cutoff).
		Delete(&models.OutboundEmail{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune outbox: %w", res.Error)
	}
	return res.RowsAffected, nil
}
