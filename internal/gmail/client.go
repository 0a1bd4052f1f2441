// Package gmail wraps the Gmail API operations phishdash needs: listing
// recent messages, fetching full messages, and moving messages to spam.
package gmail

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	gm "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

// AuthError means the session is missing or no longer valid. The UI should
// prompt for sign-in.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("not signed in: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// TransportError is a network or HTTP failure on a provider call. The
// affected unit of work is dropped; the batch continues.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// Client exposes the provider capabilities used by the ingestion pipeline.
type Client struct {
	svc    *gm.Service
	logger *zap.Logger
}

// NewClient wraps an authenticated Gmail service.
func NewClient(svc *gm.Service, logger *zap.Logger) *Client {
	return &Client{svc: svc, logger: logger}
}

// ListRecentIDs returns the IDs of the most recent messages, newest first,
// capped at limit.
func (c *Client) ListRecentIDs(ctx context.Context, limit int64) ([]string, error) {
	resp, err := c.svc.Users.Messages.List("me").
		MaxResults(limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapErr("list messages", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

// GetMessage fetches a complete message (headers and body tree) in one
// round trip.
func (c *Client) GetMessage(ctx context.Context, id string) (*gm.Message, error) {
	msg, err := c.svc.Users.Messages.Get("me", id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("get message %s", id), err)
	}
	return msg, nil
}

// MoveToSpam adds the SPAM label to a message. No labels are removed,
// matching Gmail's own spam action.
func (c *Client) MoveToSpam(ctx context.Context, id string) error {
	_, err := c.svc.Users.Messages.Modify("me", id, &gm.ModifyMessageRequest{
		AddLabelIds: []string{"SPAM"},
	}).Context(ctx).Do()
	if err != nil {
		return wrapErr(fmt.Sprintf("move message %s to spam", id), err)
	}
	c.logger.Info("moved message to spam", zap.String("message_id", id))
	return nil
}

// wrapErr sorts a provider error into the AuthError / TransportError
// taxonomy. 401 and 403 mean the session is invalid.
func wrapErr(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return &AuthError{Err: fmt.Errorf("%s: %w", op, err)}
		}
	}
	return &TransportError{Op: op, Err: err}
}

// HeaderValue returns the first header with the given name, or fallback if
// absent. Header names are not guaranteed unique; first match wins.
func HeaderValue(headers []*gm.MessagePartHeader, name, fallback string) string {
	for _, h := range headers {
		if h.Name == name {
			return h.Value
		}
	}
	return fallback
}
