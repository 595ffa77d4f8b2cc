package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Outcome labels how a submission ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// DefaultSubmitTimeout bounds a single submission.
const DefaultSubmitTimeout = 15 * time.Second

// SenderOption customises a Sender.
type SenderOption func(*Sender)

// WithSubmitTimeout overrides DefaultSubmitTimeout. Zero disables the bound.
func WithSubmitTimeout(d time.Duration) SenderOption {
	return func(s *Sender) {
		s.timeout = d
	}
}

// WithOutcomeHook registers fn to observe every finished submission.
func WithOutcomeHook(fn func(Submission, Outcome)) SenderOption {
	return func(s *Sender) {
		s.onOutcome = fn
	}
}

// Sender delivers submissions in the background. Callers never wait for or
// learn about the result; success and failure are only logged. There is no retry.
type Sender struct {
	submitter Submitter
	logger    *zap.Logger
	timeout   time.Duration
	onOutcome func(Submission, Outcome)
	wg        sync.WaitGroup
}

// NewSender wraps submitter.
func NewSender(submitter Submitter, logger *zap.Logger, opts ...SenderOption) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sender{
		submitter: submitter,
		logger:    logger,
		timeout:   DefaultSubmitTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Send starts delivering sub and returns immediately. The request context's
// values are kept but its cancellation is not.
func (s *Sender) Send(ctx context.Context, sub Submission) {
	if s == nil || s.submitter == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(ctx, sub)
	}()
}

// Wait blocks until every started submission has finished.
func (s *Sender) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

// Drain waits for started submissions like Wait but gives up when ctx ends.
func (s *Sender) Drain(ctx context.Context) error {
	if s == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sender) deliver(ctx context.Context, sub Submission) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	fields := []zap.Field{
		zap.String("product_id", sub.ProductID),
		zap.String("form_type", string(sub.FormType)),
		zap.Int64("entry_id", sub.EntryID),
	}

	started := time.Now()
	result, err := s.submitter.Submit(ctx, sub)
	fields = append(fields, zap.Duration("duration", time.Since(started)))

	if err != nil {
		s.logger.Error("data submission failed", append(fields, zap.Int("status", result.Status), zap.Error(err))...)
		s.report(sub, OutcomeFailure)
		return
	}

	s.logger.Info("data sent successfully", append(fields,
		zap.Int("status", result.Status),
		zap.Any("response", SummarizeResponse(result.Body)),
		zap.ByteString("response_body", boundedBody(result.Body)),
	)...)
	s.report(sub, OutcomeSuccess)
}

// maxLoggedBody caps the response body written to the log.
const maxLoggedBody = 4 << 10

func boundedBody(body []byte) []byte {
	if len(body) > maxLoggedBody {
		return body[:maxLoggedBody]
	}
	return body
}

func (s *Sender) report(sub Submission, outcome Outcome) {
	if s.onOutcome != nil {
		s.onOutcome(sub, outcome)
	}
}
