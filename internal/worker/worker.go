package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/pkg/queue"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer delivers rendered emails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct {
	From   string
	Logger *zap.Logger
}

// Send implements Mailer.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.Logger.Info("email",
		zap.String("from", m.From),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}

// Source is the job queue consumed by the processor.
type Source interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// EmailProcessor turns email jobs into mails.
type EmailProcessor struct {
	source   Source
	mailer   Mailer
	siteName string
	siteURL  string
	logger   *zap.Logger
	// backoff is slept after a failure; tests shorten it.
	backoff time.Duration
	poll    time.Duration
}

// NewEmailProcessor creates an email job processor.
func NewEmailProcessor(source Source, mailer Mailer, siteName, siteURL string, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{
		source:   source,
		mailer:   mailer,
		siteName: siteName,
		siteURL:  siteURL,
		logger:   logger,
		backoff:  queue.RetryBackoff,
		poll:     5 * time.Second,
	}
}

// Render builds the mail for a notification email payload.
func (p *EmailProcessor) Render(payload *queue.EmailPayload) Message {
	var b strings.Builder
	greeting := payload.RecipientName
	if greeting == "" {
		greeting = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n%s\n", greeting, payload.Body)
	if p.siteURL != "" {
		fmt.Fprintf(&b, "\nSee your notifications at %s/notifications\n", strings.TrimRight(p.siteURL, "/"))
	}
	fmt.Fprintf(&b, "\n%s\n", p.siteName)
	subject := payload.Subject
	if p.siteName != "" {
		subject = "[" + p.siteName + "] " + subject
	}
	return Message{To: payload.RecipientEmail, Subject: subject, Text: b.String()}
}

// Process executes one job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	payload, err := job.DecodeEmail()
	if err != nil {
		return err
	}
	if payload.RecipientEmail == "" {
		p.logger.Warn("email job without recipient dropped", zap.String("job_id", job.ID))
		return nil
	}
	if err := p.mailer.Send(ctx, p.Render(payload)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	p.logger.Debug("email sent", zap.String("job_id", job.ID), zap.String("notification_id", payload.NotificationID.String()))
	return nil
}

// Run dequeues and processes jobs until ctx is done. Failed jobs are retried.
func (p *EmailProcessor) Run(ctx context.Context) {
	p.logger.Info("email worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.source.Dequeue(ctx, p.poll)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			sleep(ctx, p.backoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if reErr := p.source.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			sleep(ctx, p.backoff)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
