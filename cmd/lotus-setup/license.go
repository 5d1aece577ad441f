package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinytelemetry/lotus-setup/internal/licenses"
	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

func newLicenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Show the license texts offered by the wizard",
	}

	var raw bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the license in the --lang language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLicenses(cmd, func(f licenses.Fetcher, cfg appConfig) error {
				lang := cfg.Lang
				if lang == "" {
					lang = licenses.DefaultLang
				}
				text, err := f.Content(lang)
				if err != nil {
					return err
				}
				if !raw {
					if text, err = widgets.RenderMarkdown(text, 80); err != nil {
						return err
					}
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	show.Flags().BoolVar(&raw, "raw", false, "print the text without rendering")

	locales := &cobra.Command{
		Use:   "locales",
		Short: "List the license languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLicenses(cmd, func(f licenses.Fetcher, _ appConfig) error {
				langs, err := f.Locales()
				if err != nil {
					return err
				}
				for _, l := range langs {
					fmt.Fprintln(cmd.OutOrStdout(), l)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(show, locales)
	return cmd
}

func withLicenses(cmd *cobra.Command, fn func(licenses.Fetcher, appConfig) error) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	e, err := openEnv(cfg, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer e.Close()

	f, err := e.licenses()
	if err != nil {
		return err
	}
	return fn(f, cfg)
}
