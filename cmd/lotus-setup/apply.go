package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/setup"
)

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply ANSWERS",
		Short: "Run the setup unattended from an answers file",
		Long: `Apply fills the setup pages from a YAML answers file, "-" for stdin:

  pages:
    - page: license
      values:
        license-accept: "yes"
    - page: ingest
      values:
        tcp-port: "4000"

Pages are visited in the listed order with the same validation as the
interactive wizard. Nothing is written unless every visited page is valid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			data, err := readAnswers(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return runApply(cmd, cfg, data)
		},
	}
}

func readAnswers(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return data, nil
}

func runApply(cmd *cobra.Command, cfg appConfig, data []byte) error {
	answers, err := setup.ParseAnswers(data)
	if err != nil {
		return err
	}

	e, err := openEnv(cfg, cmd.ErrOrStderr(), false)
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
	pages, err := setup.NewPages(&target, fetcher, cfg.Output)
	if err != nil {
		return err
	}
	policy, err := cwm.ParseDeparturePolicy(cfg.LeavePolicy)
	if err != nil {
		return err
	}

	var visited []string
	seen := make(map[string]bool)
	sink := cwm.NavigationSinkFunc(func(p cwm.Page) {
		if !seen[p.ID()] {
			seen[p.ID()] = true
			visited = append(visited, p.ID())
		}
	})
	pager, err := cwm.NewPager("setup", sink, pages,
		cwm.WithDeparturePolicy(policy),
		cwm.WithLogger(e.logger.WithPrefix("pager")),
	)
	if err != nil {
		return err
	}

	session, err := e.session(setup.ModeUnattended)
	if err != nil {
		return err
	}
	if err := session.Begin(); err != nil {
		return err
	}
	if err := setup.Apply(pager, answers); err != nil {
		abortSession(session, e.logger)
		return err
	}
	run, err := session.Finish(target, visited)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (run %s)\n", cfg.Output, run.ID)
	return nil
}
