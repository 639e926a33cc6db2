package cmd

import (
	"context"

	"github.com/timvw/tmuxedo/internal/ui"
	"github.com/timvw/tmuxedo/internal/updates"
)

func runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel() // cancels an in-flight update scan when the TUI exits

	a, err := setup(ctx, "tui")
	if err != nil {
		return err
	}
	defer a.close(ctx)

	inv, err := a.inventory()
	if err != nil {
		return err
	}

	t := &ui.TUI{
		Manager: inv,
		Theme:   ui.ThemeByName(a.cfg.Theme),
	}
	if a.cfg.UpdateChecks() {
		s := updates.NewScanner(a.git)
		s.Metrics = a.metrics
		t.Scanner = s
	}
	return t.Run(ctx)
}
