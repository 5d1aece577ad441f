package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/setup"
	"github.com/tinytelemetry/lotus-setup/internal/tui"
)

func runWizard(cmd *cobra.Command, cfg appConfig) error {
	e, err := openEnv(cfg, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer e.Close()

	target, err := e.loadTarget()
	if err != nil {
		return err
	}
	fetcher, err := e.licenses()
	if err != nil {
		return err
	}
	session, err := e.session(setup.ModeInteractive)
	if err != nil {
		return err
	}

	pages, err := setup.NewPages(&target, fetcher, cfg.Output)
	if err != nil {
		return err
	}
	nav, err := tui.NewNavigator(cfg.Navigation)
	if err != nil {
		return err
	}
	policy, err := cwm.ParseDeparturePolicy(cfg.LeavePolicy)
	if err != nil {
		return err
	}
	pager, err := cwm.NewPager("setup", nav, pages,
		cwm.WithDeparturePolicy(policy),
		cwm.WithLogger(e.logger.WithPrefix("pager")),
	)
	if err != nil {
		return err
	}

	if err := session.Begin(); err != nil {
		return err
	}

	var app *tui.App
	app = tui.NewApp(pager, nav, tui.Options{
		Title: "Lotus Setup",
		Finish: func() error {
			_, err := session.Finish(target, app.Visited())
			return err
		},
		ReverseScrollWheel: cfg.ReverseScrollWheel || target.ReverseScrollWheel,
		Logger:             e.logger.WithPrefix("tui"),
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		abortSession(session, e.logger)
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("setup wizard requires a real terminal, use 'lotus-setup apply' instead")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	if err := app.Err(); err != nil {
		abortSession(session, e.logger)
		return err
	}

	out := cmd.OutOrStdout()
	if !app.Finished() {
		abortSession(session, e.logger)
		fmt.Fprintln(out, "Setup aborted, nothing was written.")
		return nil
	}
	fmt.Fprintf(out, "Wrote %s\n", cfg.Output)
	return nil
}

// abortSession forgets the stored pre snapshot id. A failure only leaves a
// stale id that the next run warns about, so it is logged, not returned.
func abortSession(session *setup.Session, logger *log.Logger) {
	if err := session.Abort(); err != nil {
		logger.Warn("abort", "err", err)
	}
}
