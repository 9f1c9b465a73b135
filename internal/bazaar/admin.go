package bazaar

import (
	"context"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// Init sets the admin principal. The first call may name anyone; afterwards
// only the current admin can re-run it. Admin operations are exempt from the
// maintenance gate so the gate can always be lifted.
func (c *Core) Init(ctx context.Context, admin host.Principal) error {
	if err := c.authorize(ctx, admin); err != nil {
		return err
	}
	current, err := c.ledger.Admin(ctx)
	if err != nil {
		return err
	}
	if current.Admin != "" && current.Admin != admin {
		return ErrUnauthorized
	}
	current.Admin = admin
	return c.ledger.PutAdmin(ctx, current)
}

// TransferAdmin hands the admin role to next. Admin-only.
func (c *Core) TransferAdmin(ctx context.Context, caller, next host.Principal) error {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if next == "" {
		return ErrInvalidPrincipal
	}
	current, err := c.ledger.Admin(ctx)
	if err != nil {
		return err
	}
	current.Admin = next
	if err := c.ledger.PutAdmin(ctx, current); err != nil {
		return err
	}
	c.publish(ctx, "admin.transfer", []host.Principal{caller, next}, nil)
	return nil
}

// Admin returns the current admin principal, empty before Init.
func (c *Core) Admin(ctx context.Context) (host.Principal, error) {
	current, err := c.ledger.Admin(ctx)
	if err != nil {
		return "", err
	}
	return current.Admin, nil
}

// SetMaintenance flips the global circuit breaker. Admin-only.
func (c *Core) SetMaintenance(ctx context.Context, caller host.Principal, on bool) error {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return err
	}
	current, err := c.ledger.Admin(ctx)
	if err != nil {
		return err
	}
	current.Maintenance = on
	if err := c.ledger.PutAdmin(ctx, current); err != nil {
		return err
	}
	c.publish(ctx, "admin.maintenance", []host.Principal{caller}, map[string]string{
		"active": formatBool(on),
	})
	return nil
}

// MaintenanceActive reports whether the global circuit breaker is set.
func (c *Core) MaintenanceActive(ctx context.Context) (bool, error) {
	current, err := c.ledger.Admin(ctx)
	if err != nil {
		return false, err
	}
	return current.Maintenance, nil
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
