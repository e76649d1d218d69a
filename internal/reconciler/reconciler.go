// Package reconciler repairs the eventual-consistency gap between work
// tickets and job sub-records: the completion sync is a separate write and
// can fail, leaving a completed ticket behind a still-paid job record.
package reconciler

import (
	"context"
	"time"

	jitterbug "github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	api "github.com/townplan/assessment-portal/api/v1"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/internal/store/model"
	"github.com/townplan/assessment-portal/pkg/metrics"
)

const defaultSweepInterval = 30 * time.Second

type Reconciler struct {
	store    store.Store
	interval time.Duration
}

func New(s store.Store, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Reconciler{store: s, interval: interval}
}

// Run sweeps until the context is cancelled. The ticker is jittered so
// multiple replicas don't sweep in lockstep.
func (r *Reconciler) Run(ctx context.Context) {
	logger := zap.S().Named("reconciler")
	logger.Infof("starting reconciler with interval %s", r.interval)

	ticker := jitterbug.New(r.interval, &jitterbug.Norm{Stdev: 500 * time.Millisecond})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reconciler stopped")
			return
		case <-ticker.C:
		}

		if err := r.Sweep(ctx); err != nil {
			logger.Errorw("sweep failed", "error", err)
		}
	}
}

// Sweep finds completed tickets whose job sub-record has not caught up and
// repairs them, then refreshes the ticket status gauges. It is safe to run
// concurrently with user writes: every repair is a forward-only upsert and
// stale reads at worst delay the repair to the next sweep.
func (r *Reconciler) Sweep(ctx context.Context) error {
	logger := zap.S().Named("reconciler")

	tickets, err := r.store.Ticket().List(ctx, store.NewTicketQueryFilter(), nil)
	if err != nil {
		return err
	}

	statusCounts := make(map[string]int)
	for _, ticket := range tickets {
		statusCounts[ticket.Status]++

		if ticket.Status != string(api.TicketStatusCompleted) {
			continue
		}
		if err := r.repairTicket(ctx, ticket); err != nil {
			logger.Errorw("failed to repair ticket", "ticket_id", ticket.ID, "error", err)
		}
	}

	for _, status := range []api.TicketStatus{
		api.TicketStatusPending,
		api.TicketStatusInProgress,
		api.TicketStatusPaid,
		api.TicketStatusCompleted,
	} {
		metrics.UpdateTicketStateCounterMetric(string(status), statusCounts[string(status)])
	}

	return nil
}

func (r *Reconciler) repairTicket(ctx context.Context, ticket model.Ticket) error {
	logger := zap.S().Named("reconciler")

	job, err := r.store.Job().Get(ctx, ticket.JobID)
	if err != nil {
		// a vanished job is not repairable; skip and keep sweeping
		logger.Warnw("job not found for completed ticket", "ticket_id", ticket.ID, "job_id", ticket.JobID)
		return nil
	}

	record := job.Assessment(api.AssessmentType(ticket.TicketType))
	if record != nil &&
		record.Status == string(api.AssessmentStatusCompleted) &&
		record.CompletedDocument != nil {
		return nil
	}

	patch := model.AssessmentRecord{
		Type:              ticket.TicketType,
		Status:            string(api.AssessmentStatusCompleted),
		CompletedDocument: ticket.CompletedDocument,
	}
	if ticket.Request != nil {
		patch.DevelopmentType = ticket.Request.Data.DevelopmentType
		patch.AdditionalInfo = ticket.Request.Data.AdditionalInfo
		if len(ticket.Request.Data.Documents) > 0 {
			patch.Documents = model.MakeJSONField(ticket.Request.Data.Documents)
		}
	}

	if _, err := r.store.Job().UpsertAssessment(ctx, ticket.JobID, patch); err != nil {
		return err
	}

	logger.Infow("repaired job record for completed ticket",
		"ticket_id", ticket.ID, "job_id", ticket.JobID, "ticket_type", ticket.TicketType)
	return nil
}
