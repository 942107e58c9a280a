package host

import (
	"context"
	"fmt"

	"github.com/neovim/go-client/nvim"
)

// RegisterClipboard writes to a Neovim register, "+" being the system clipboard
// through Neovim's clipboard provider.
type RegisterClipboard struct {
	v    *nvim.Nvim
	name string
}

func (r *RegisterClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.v.Call("setreg", nil, r.name, text); err != nil {
		return fmt.Errorf("setreg %s: %w", r.name, err)
	}
	return nil
}

// Notifier shows messages through nvim_notify.
type Notifier struct {
	v *nvim.Nvim
}

func (n *Notifier) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.v.Notify(message, nvim.LogInfoLevel, map[string]interface{}{})
}
