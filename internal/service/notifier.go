package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/pkg/webhook"
)

// Embed colors for catalog events
const (
	colorApproved  = 0x2ECC71
	colorRejected  = 0xE74C3C
	colorModified  = 0xF39C12
	colorSubmitted = 0x3498DB
	colorPublished = 0x9B59B6
)

const notifyTimeout = 10 * time.Second

// Notifier pushes catalog events to configured webhook targets.
// Delivery is best effort: failures are logged by the sink and never
// surface to the caller.
type Notifier struct {
	sink *webhook.Sink
}

// NewNotifier creates a new Notifier
func NewNotifier(sink *webhook.Sink) *Notifier {
	return &Notifier{sink: sink}
}

// CorrectionSubmitted announces a new pending correction
func (n *Notifier) CorrectionSubmitted(c *domain.Correction, gameTitle, submitterName string) {
	if n == nil || n.sink == nil || !n.sink.Enabled() {
		return
	}
	msg := &webhook.Message{
		Embeds: []webhook.Embed{{
			Title:       "New correction submitted",
			Description: fmt.Sprintf("**%s** · field `%s`", gameTitle, c.Field),
			Color:       colorSubmitted,
			Fields: []webhook.EmbedField{
				{Name: "Submitted by", Value: submitterName, Inline: true},
				{Name: "Proposed value", Value: compactJSON(c.NewValue), Inline: true},
				{Name: "Reason", Value: c.Reason},
			},
		}},
	}
	n.broadcast(msg)
}

// CorrectionResolved announces a review outcome
func (n *Notifier) CorrectionResolved(c *domain.Correction, gameTitle, reviewerName string) {
	if n == nil || n.sink == nil || !n.sink.Enabled() {
		return
	}
	color := colorRejected
	switch c.Status {
	case domain.CorrectionStatusApproved:
		color = colorApproved
	case domain.CorrectionStatusModified:
		color = colorModified
	}
	msg := &webhook.Message{
		Embeds: []webhook.Embed{{
			Title:       fmt.Sprintf("Correction %s", c.Status),
			Description: fmt.Sprintf("**%s** · field `%s`", gameTitle, c.Field),
			Color:       color,
			Fields: []webhook.EmbedField{
				{Name: "Reviewed by", Value: reviewerName, Inline: true},
				{Name: "Applied value", Value: compactJSON(c.AppliedValue), Inline: true},
			},
		}},
	}
	n.broadcast(msg)
}

// SubmissionSubmitted announces a new game proposal
func (n *Notifier) SubmissionSubmitted(s *domain.GameSubmission, submitterName string) {
	if n == nil || n.sink == nil || !n.sink.Enabled() {
		return
	}
	msg := &webhook.Message{
		Embeds: []webhook.Embed{{
			Title:       "New game submitted",
			Description: fmt.Sprintf("**%s**", s.Title),
			Color:       colorSubmitted,
			Fields: []webhook.EmbedField{
				{Name: "Submitted by", Value: submitterName, Inline: true},
			},
		}},
	}
	n.broadcast(msg)
}

// SubmissionResolved announces a submission review outcome
func (n *Notifier) SubmissionResolved(s *domain.GameSubmission, reviewerName string) {
	if n == nil || n.sink == nil || !n.sink.Enabled() {
		return
	}
	color := colorRejected
	if s.Status == domain.SubmissionStatusApproved {
		color = colorApproved
	}
	msg := &webhook.Message{
		Embeds: []webhook.Embed{{
			Title:       fmt.Sprintf("Game submission %s", s.Status),
			Description: fmt.Sprintf("**%s**", s.Title),
			Color:       color,
			Fields: []webhook.EmbedField{
				{Name: "Reviewed by", Value: reviewerName, Inline: true},
			},
		}},
	}
	n.broadcast(msg)
}

// GamePublished announces a new catalog entry going live
func (n *Notifier) GamePublished(game *domain.Game, publisherName string) {
	if n == nil || n.sink == nil || !n.sink.Enabled() {
		return
	}
	msg := &webhook.Message{
		Embeds: []webhook.Embed{{
			Title:       "Game published",
			Description: fmt.Sprintf("**%s** is now in the catalog", game.Title),
			Color:       colorPublished,
			Fields: []webhook.EmbedField{
				{Name: "Slug", Value: game.Slug, Inline: true},
				{Name: "Published by", Value: publisherName, Inline: true},
			},
		}},
	}
	n.broadcast(msg)
}

func (n *Notifier) broadcast(msg *webhook.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		n.sink.Broadcast(ctx, msg)
	}()
}

func compactJSON(raw []byte) string {
	if len(raw) == 0 {
		return "-"
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "(empty)"
		}
		return t
	default:
		out, _ := json.Marshal(v)
		return string(out)
	}
}
