package services

import "errors"

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrInterviewNotCompleted = errors.New("interview not completed yet")
	ErrSessionClosed         = errors.New("interview session is no longer in progress")
	ErrNoPendingFollowUp     = errors.New("no follow-up question is pending")
	ErrFollowUpPending       = errors.New("a follow-up answer is expected")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrSessionBusy           = errors.New("session is busy, retry shortly")
)
