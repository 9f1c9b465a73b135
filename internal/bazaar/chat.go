package bazaar

import (
	"context"
	"strings"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar/state"
	"github.com/PinoyQ8/trust-bazaar/internal/host"
	apperrors "github.com/PinoyQ8/trust-bazaar/internal/platform/errors"
)

// SendMessage delivers a chat message to the recipient's inbox.
func (c *Core) SendMessage(ctx context.Context, from, to host.Principal, text string) error {
	if err := c.authorize(ctx, from); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	if to == "" {
		return ErrInvalidPrincipal
	}
	if strings.TrimSpace(text) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "message text is required")
	}
	msg := state.Message{
		From:   from,
		To:     to,
		Text:   text,
		SentAt: c.clock.Now(),
	}
	if err := c.ledger.AppendMessage(ctx, msg); err != nil {
		return err
	}
	c.publish(ctx, "chat.message", []host.Principal{from, to}, nil)
	return nil
}

// Messages returns p's inbox, oldest first.
func (c *Core) Messages(ctx context.Context, p host.Principal) ([]state.Message, error) {
	return c.ledger.Messages(ctx, p)
}
