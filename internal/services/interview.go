package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
)

const (
	msgTimeLimitExceeded = "Answer exceeded time limit. Moving to next question."
	msgFollowUpGenerated = "Follow-up question generated"
	msgAnswerSubmitted   = "Answer submitted successfully"
	msgFollowUpSubmitted = "Follow-up answer submitted"
	msgInterviewComplete = "Interview completed!"
)

// CompletionListener is told about every session that reaches completed.
type CompletionListener interface {
	SessionCompleted(sessionID string)
}

// InterviewDeps wires the per-answer pipeline into an InterviewService.
type InterviewDeps struct {
	Store      SessionStore
	Locks      SessionLocker
	Questions  *QuestionGenerator
	Personas   *PersonaClassifier
	Evaluator  *ResponseEvaluator
	Narratives *NarrativeChecker
	FollowUps  *FollowUpEngine
	Reports    *ReportAggregator
}

type InterviewService struct {
	deps            InterviewDeps
	locks           SessionLocker
	answerTimeLimit time.Duration
	listener        CompletionListener
	now             func() time.Time
	log             *zap.Logger
}

func NewInterviewService(deps InterviewDeps, answerTimeLimit time.Duration, log *zap.Logger) *InterviewService {
	locks := deps.Locks
	if locks == nil {
		locks = NewMemorySessionLocker()
	}
	return &InterviewService{
		deps:            deps,
		locks:           locks,
		answerTimeLimit: answerTimeLimit,
		now:             time.Now,
		log:             logger.Named(log, "interview"),
	}
}

// OnComplete registers the listener notified after a session completes.
func (s *InterviewService) OnComplete(listener CompletionListener) {
	s.listener = listener
}

func (s *InterviewService) TotalQuestions() int {
	return s.deps.Questions.Total()
}

// Start generates questions and stores a fresh in-progress session, replacing any session with the same id.
func (s *InterviewService) Start(ctx context.Context, id string, resume models.ResumeData, targetRole, candidateName string) (*models.InterviewSession, error) {
	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	questions := s.deps.Questions.Generate(ctx, resume, targetRole)

	slots := make([]models.QuestionSession, len(questions))
	for i, q := range questions {
		slots[i] = models.QuestionSession{Question: q, Persona: models.PersonaNormal}
	}

	if candidateName == "" {
		candidateName = resume.Name
	}

	session := &models.InterviewSession{
		ID:             id,
		CandidateName:  candidateName,
		TargetRole:     targetRole,
		ResumeSummary:  ResumeSummary(resume),
		Questions:      slots,
		Cursor:         0,
		Status:         models.SessionInProgress,
		PersonaHistory: models.PersonaHistory{},
		StartTime:      s.now(),
	}

	if err := s.deps.Store.Put(ctx, &SessionRecord{Session: session, Evaluations: []models.Evaluation{}}); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info("interview started",
		append(logger.SessionFields(id, targetRole), zap.Int("questions", len(slots)))...,
	)

	return session, nil
}

// load fetches an in-progress session. Callers must hold the session lock.
func (s *InterviewService) load(ctx context.Context, id string) (*SessionRecord, error) {
	rec, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Session.Status.IsTerminal() {
		return nil, ErrSessionClosed
	}
	if rec.Session.Current() == nil {
		return nil, ErrSessionClosed
	}
	return rec, nil
}

// SubmitAnswer records the initial answer for the current question and runs
// persona, evaluation, narrative and follow-up in that order. Over-limit answers
// are rejected without touching the session.
func (s *InterviewService) SubmitAnswer(ctx context.Context, id string, questionID int, text string, durationSeconds float64, isVoice bool) (*models.SubmitAnswerResponse, error) {
	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	session := rec.Session

	if durationSeconds > s.answerTimeLimit.Seconds() {
		s.log.Info("answer rejected for exceeding time limit",
			append(logger.SessionFields(id, session.TargetRole), zap.Float64("duration_seconds", durationSeconds))...,
		)
		return &models.SubmitAnswerResponse{Success: false, Message: msgTimeLimitExceeded}, nil
	}

	slot := session.Current()
	if slot.FollowUp.Pending() {
		return nil, ErrFollowUpPending
	}
	if questionID != slot.Question.ID {
		s.log.Warn("answer submitted for a different question, recording on current slot",
			zap.String(logger.FieldSessionID, id),
			zap.Int("submitted_question_id", questionID),
			zap.Int("current_question_id", slot.Question.ID),
		)
	}

	answer := models.NewAnswer(slot.Question.ID, text, durationSeconds, isVoice, s.now())
	question := slot.Question.Text

	persona := s.deps.Personas.Classify(ctx, &session.PersonaHistory, question, text, durationSeconds, answer.WordCount)
	evaluation := s.deps.Evaluator.Evaluate(ctx, question, text, slot.Question.ExpectedElements, persona)
	evaluation.Narrative = s.deps.Narratives.Check(ctx, question, text)
	evaluation.WordCount = answer.WordCount
	evaluation.Persona = persona

	slot.InitialAnswer = &answer
	slot.Persona = persona
	stored := evaluation
	slot.Evaluation = &stored
	rec.Evaluations = append(rec.Evaluations, evaluation)

	var resp *models.SubmitAnswerResponse
	if followUp := s.deps.FollowUps.Decide(ctx, question, text, evaluation, persona); followUp != nil {
		slot.FollowUp = followUp
		resp = &models.SubmitAnswerResponse{Success: true, FollowUpQuestion: followUp, Message: msgFollowUpGenerated}
	} else {
		resp = s.advance(session, msgAnswerSubmitted)
	}

	if err := s.deps.Store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info("answer processed",
		append(logger.SessionFields(id, session.TargetRole),
			zap.Int("question_id", slot.Question.ID),
			zap.String("persona", string(persona)),
			zap.Float64("overall", OverallScore(evaluation)),
			zap.Bool("follow_up", resp.FollowUpQuestion != nil),
		)...,
	)

	s.notifyIfComplete(session)
	return resp, nil
}

// SubmitFollowUpAnswer records the answer to the pending follow-up and advances.
func (s *InterviewService) SubmitFollowUpAnswer(ctx context.Context, id string, text string, durationSeconds float64) (*models.SubmitAnswerResponse, error) {
	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	session := rec.Session

	slot := session.Current()
	if !slot.FollowUp.Pending() {
		return nil, ErrNoPendingFollowUp
	}

	answer := models.NewAnswer(slot.Question.ID, text, durationSeconds, false, s.now())
	slot.FollowUp.Answer = &answer

	resp := s.advance(session, msgFollowUpSubmitted)

	if err := s.deps.Store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info("follow-up answer recorded",
		append(logger.SessionFields(id, session.TargetRole), zap.Int("question_id", slot.Question.ID))...,
	)

	s.notifyIfComplete(session)
	return resp, nil
}

// advance moves the cursor and completes the session after the last question.
func (s *InterviewService) advance(session *models.InterviewSession, message string) *models.SubmitAnswerResponse {
	session.Cursor++

	if session.Cursor >= len(session.Questions) {
		end := s.now()
		session.Status = models.SessionCompleted
		session.EndTime = &end
		return &models.SubmitAnswerResponse{Success: true, IsInterviewComplete: true, Message: msgInterviewComplete}
	}

	next := session.Current().Question
	return &models.SubmitAnswerResponse{Success: true, NextQuestion: &next, Message: message}
}

func (s *InterviewService) notifyIfComplete(session *models.InterviewSession) {
	if session.Status != models.SessionCompleted || s.listener == nil {
		return
	}
	s.log.Info("interview completed", logger.SessionFields(session.ID, session.TargetRole)...)
	s.listener.SessionCompleted(session.ID)
}

// CurrentQuestion returns the question at the cursor, or nil once every question is done.
func (s *InterviewService) CurrentQuestion(ctx context.Context, id string) (*models.Question, error) {
	rec, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	slot := rec.Session.Current()
	if slot == nil {
		return nil, nil
	}
	q := slot.Question
	return &q, nil
}

func (s *InterviewService) Status(ctx context.Context, id string) (*models.SessionStatusResponse, error) {
	rec, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session := rec.Session

	current := session.Cursor + 1
	if current > len(session.Questions) {
		current = len(session.Questions)
	}

	return &models.SessionStatusResponse{
		SessionID:       session.ID,
		Status:          session.Status,
		CurrentQuestion: current,
		TotalQuestions:  len(session.Questions),
		TargetRole:      session.TargetRole,
	}, nil
}

// Cancel moves an in-progress session to cancelled.
func (s *InterviewService) Cancel(ctx context.Context, id string) error {
	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	rec, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.Session.Status.IsTerminal() {
		return ErrSessionClosed
	}

	rec.Session.Status = models.SessionCancelled
	if err := s.deps.Store.Put(ctx, rec); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info("interview cancelled", logger.SessionFields(id, rec.Session.TargetRole)...)
	return nil
}

// Snapshot returns a copy of the session and its evaluations.
func (s *InterviewService) Snapshot(ctx context.Context, id string) (*SessionRecord, error) {
	return s.deps.Store.Get(ctx, id)
}

// GenerateReport aggregates a completed session.
func (s *InterviewService) GenerateReport(ctx context.Context, id string) (*models.PerformanceReport, error) {
	rec, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Session.Status != models.SessionCompleted {
		return nil, ErrInterviewNotCompleted
	}
	return s.deps.Reports.Aggregate(ctx, rec.Session, rec.Evaluations), nil
}
