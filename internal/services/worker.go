package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

// ArchiveStore persists finished interviews.
type ArchiveStore interface {
	Save(record *models.InterviewRecord) error
}

// SessionSource is the part of InterviewService the worker reads from.
type SessionSource interface {
	Snapshot(ctx context.Context, id string) (*SessionRecord, error)
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(sessionID string)
	SessionCompleted(sessionID string)
}

type worker struct {
	sessions      SessionSource
	store         SessionStore
	archive       ArchiveStore
	reports       *ReportAggregator
	jobQueue      chan string
	concurrency   int
	sweepInterval time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
	log           *zap.Logger
}

// NewWorker archives completed sessions and sweeps expired ones from store every sweepInterval.
func NewWorker(
	sessions SessionSource,
	store SessionStore,
	archive ArchiveStore,
	reports *ReportAggregator,
	concurrency int,
	sweepInterval time.Duration,
	log *zap.Logger,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &worker{
		sessions:      sessions,
		store:         store,
		archive:       archive,
		reports:       reports,
		jobQueue:      make(chan string, 100),
		concurrency:   concurrency,
		sweepInterval: sweepInterval,
		stopChan:      make(chan struct{}),
		log:           logger.Named(log, "worker"),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.sweepInterval > 0 {
		w.wg.Add(1)
		go w.sweepExpired(ctx)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping worker")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.log.Info("worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(sessionID string) {
	select {
	case <-w.stopChan:
		w.log.Warn("worker stopped, cannot enqueue job", zap.String(logger.FieldSessionID, sessionID))
		return
	default:
	}

	select {
	case w.jobQueue <- sessionID:
		w.log.Debug("job enqueued", zap.String(logger.FieldSessionID, sessionID))
	case <-w.stopChan:
		w.log.Warn("worker stopped, cannot enqueue job", zap.String(logger.FieldSessionID, sessionID))
	}
}

// SessionCompleted implements CompletionListener.
func (w *worker) SessionCompleted(sessionID string) {
	w.EnqueueJob(sessionID)
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case sessionID := <-w.jobQueue:
			err := w.archiveSession(ctx, sessionID)
			switch {
			case errors.Is(err, ErrInterviewNotCompleted):
				log.Info("session no longer completed, skipping archive", zap.String(logger.FieldSessionID, sessionID))
			case err != nil:
				log.Error("failed to archive session", zap.String(logger.FieldSessionID, sessionID), zap.Error(err))
			default:
				log.Info("session archived", zap.String(logger.FieldSessionID, sessionID))
			}
		}
	}
}

func (w *worker) archiveSession(ctx context.Context, sessionID string) error {
	rec, err := w.sessions.Snapshot(ctx, sessionID)
	if err != nil {
		return err
	}

	session := rec.Session
	// the id may have been restarted since the job was queued
	if session.Status != models.SessionCompleted {
		return ErrInterviewNotCompleted
	}

	record := &models.InterviewRecord{
		SessionID:     session.ID,
		CandidateName: session.CandidateName,
		TargetRole:    session.TargetRole,
		Status:        session.Status,
		Session:       *session,
		Evaluations:   rec.Evaluations,
		StartedAt:     session.StartTime,
		CompletedAt:   session.EndTime,
	}

	report := w.reports.Aggregate(ctx, session, rec.Evaluations)
	record.Report = report
	record.OverallScore = report.Scores.Overall
	record.Recommendation = string(report.RecommendationLevel)

	return w.archive.Save(record)
}

func (w *worker) sweepExpired(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := w.store.Evict(ctx)
			if err != nil {
				w.log.Warn("failed to evict expired sessions", zap.Error(err))
				continue
			}
			if removed > 0 {
				w.log.Info("expired sessions evicted", zap.Int("removed", removed))
			}
		}
	}
}
