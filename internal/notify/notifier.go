// Package notify relays formatted trade notifications to a messaging
// channel. The relay is best-effort: an unconfigured or failing channel is
// reported as not-delivered, never as an error.
package notify

import (
	"context"

	"go.uber.org/zap"

	"solana-proxy/internal/domain"
)

// Sender is a notification channel.
type Sender interface {
	// Send delivers a Markdown-formatted message.
	Send(ctx context.Context, text string) error
	// Name returns a human-readable identifier for the channel.
	Name() string
}

// Notifier formats trade events and dispatches them to its Sender.
type Notifier struct {
	sender Sender // nil when no channel is configured
	logger *zap.Logger
}

// New creates a Notifier. A nil sender is valid and yields an unconfigured
// relay whose notifications all report ok=false.
func New(sender Sender, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, logger: logger}
}

// Configured reports whether a channel is attached.
func (n *Notifier) Configured() bool {
	return n != nil && n.sender != nil
}

// NotifySwap formats and delivers a swap event. Returns true only when the
// message was accepted by the channel.
func (n *Notifier) NotifySwap(ctx context.Context, ev domain.SwapEvent) bool {
	return n.deliver(ctx, FormatSwap(ev))
}

// NotifyBuy formats and delivers a buy event. Returns true only when the
// message was accepted by the channel.
func (n *Notifier) NotifyBuy(ctx context.Context, ev domain.BuyEvent) bool {
	return n.deliver(ctx, FormatBuy(ev))
}

func (n *Notifier) deliver(ctx context.Context, text string) bool {
	if !n.Configured() {
		return false
	}
	if err := n.sender.Send(ctx, text); err != nil {
		n.logger.Error("notification delivery failed",
			zap.String("sender", n.sender.Name()),
			zap.Error(err),
		)
		return false
	}
	return true
}
