// Package ingest orchestrates a scan: list recent messages, fetch each one,
// extract text, and classify the resulting batch.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gm "google.golang.org/api/gmail/v1"

	"github.com/dkathe/phishdash/internal/gmail"
	"github.com/dkathe/phishdash/internal/mime"
	"github.com/dkathe/phishdash/internal/types"
)

// MailSource is the slice of the mail provider the pipeline needs.
// Implemented by gmail.Client.
type MailSource interface {
	ListRecentIDs(ctx context.Context, limit int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (*gm.Message, error)
}

// Classifier scores one message body. Implemented by classify.Client.
type Classifier interface {
	Classify(ctx context.Context, text string) (*types.Classification, error)
}

// Pipeline fetches and classifies batches of recent messages.
type Pipeline struct {
	mail        MailSource
	classifier  Classifier
	logger      *zap.Logger
	maxInFlight int
}

// New creates a pipeline. maxInFlight caps concurrent provider and
// classifier calls; 0 means unbounded.
func New(mail MailSource, classifier Classifier, logger *zap.Logger, maxInFlight int) *Pipeline {
	return &Pipeline{
		mail:        mail,
		classifier:  classifier,
		logger:      logger,
		maxInFlight: maxInFlight,
	}
}

func (p *Pipeline) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	if p.maxInFlight > 0 {
		g.SetLimit(p.maxInFlight)
	}
	return g, ctx
}

// Fetch lists up to limit recent message IDs and fetches each full message
// concurrently. Results come back in the original request order. A failed
// get drops that message only; the rest of the batch survives.
func (p *Pipeline) Fetch(ctx context.Context, limit int64) ([]types.Email, error) {
	ids, err := p.mail.ListRecentIDs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	// Fan out, then reassemble by index: completion order is not request
	// order, and dropped slots must not shift the survivors.
	slots := make([]*types.Email, len(ids))
	g, gctx := p.group(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			msg, err := p.mail.GetMessage(gctx, id)
			if err != nil {
				p.logger.Warn("dropping message after failed fetch",
					zap.String("message_id", id),
					zap.Error(err))
				return nil
			}
			email := buildEmail(msg)
			slots[i] = &email
			return nil
		})
	}
	g.Wait()

	emails := make([]types.Email, 0, len(ids))
	for _, slot := range slots {
		if slot != nil {
			emails = append(emails, *slot)
		}
	}

	p.logger.Info("fetched message batch",
		zap.Int("listed", len(ids)),
		zap.Int("fetched", len(emails)),
		zap.Int("dropped", len(ids)-len(emails)))

	return emails, nil
}

// Analyze classifies each email and pairs it with its score structurally.
// A failed classification leaves a nil Classification on that email; it is
// never silently treated as safe.
func (p *Pipeline) Analyze(ctx context.Context, emails []types.Email) []types.ScoredEmail {
	if len(emails) == 0 {
		return nil
	}

	scored := make([]types.ScoredEmail, len(emails))
	g, gctx := p.group(ctx)
	for i, email := range emails {
		i, email := i, email
		scored[i] = types.ScoredEmail{Email: email}
		g.Go(func() error {
			result, err := p.classifier.Classify(gctx, email.Snippet)
			if err != nil {
				p.logger.Warn("classification failed",
					zap.String("message_id", email.ID),
					zap.Error(err))
				return nil
			}
			scored[i].Classification = result
			return nil
		})
	}
	g.Wait()

	return scored
}

// Run performs a full scan: fetch then classify. An empty fetch skips
// classification entirely.
func (p *Pipeline) Run(ctx context.Context, limit int64) ([]types.ScoredEmail, error) {
	emails, err := p.Fetch(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return nil, nil
	}
	return p.Analyze(ctx, emails), nil
}

// buildEmail normalizes a raw provider message. Missing headers fall back
// to "unknown", "(no subject)", and an empty date.
func buildEmail(msg *gm.Message) types.Email {
	var headers []*gm.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}
	return types.Email{
		ID:      msg.Id,
		Sender:  gmail.HeaderValue(headers, "From", "unknown"),
		Subject: gmail.HeaderValue(headers, "Subject", "(no subject)"),
		Date:    gmail.HeaderValue(headers, "Date", ""),
		Snippet: mime.ExtractText(msg.Payload),
	}
}
