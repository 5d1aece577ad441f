// Package setup assembles the Lotus setup wizard: its pages, the session
// that snapshots and writes the config, and unattended answers.
package setup

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/tinytelemetry/lotus-setup/internal/backup"
	"github.com/tinytelemetry/lotus-setup/internal/cwm"
	"github.com/tinytelemetry/lotus-setup/internal/model"
	"github.com/tinytelemetry/lotus-setup/internal/widgets"
)

// Page ids, in display order.
const (
	PageLicense = "license"
	PageIngest  = "ingest"
	PageStorage = "storage"
	PageAPI     = "api"
	PageBackup  = "backup"
	PageDisplay = "display"
	PageSummary = "summary"
)

// ErrNoLicenses is returned by NewPages without a license source.
var ErrNoLicenses = errors.New("setup: no license source")

// NewPages builds the wizard pages editing cfg. Widgets are bound to cfg
// and named after the config keys they edit; target is the path shown on
// the summary.
func NewPages(cfg *model.SetupConfig, licenses widgets.LicenseSource, target string) ([]cwm.Page, error) {
	if licenses == nil {
		return nil, ErrNoLicenses
	}
	if cfg.Lang == "" {
		cfg.Lang = model.DefaultLang
	}

	license := widgets.NewLicenseAgreement("license",
		licenses,
		func() string { return cfg.Lang }, func(s string) { cfg.Lang = s },
		func() bool { return cfg.LicenseAccepted }, func(b bool) { cfg.LicenseAccepted = b },
	)

	return []cwm.Page{
		cwm.NewPage(PageLicense, "License", license),
		cwm.NewPage(PageIngest, "Ingest", ingestBox(cfg)),
		cwm.NewPage(PageStorage, "Storage", storageBox(cfg)),
		cwm.NewPage(PageAPI, "HTTP API", apiBox(cfg)),
		cwm.NewPage(PageBackup, "Backups", backupBox(cfg)),
		cwm.NewPage(PageDisplay, "Display", displayBox(cfg)),
		cwm.NewPage(PageSummary, "Summary", widgets.NewVBox("summary-box",
			widgets.NewSummary("summary", func() model.SetupConfig { return *cfg }, target),
			widgets.NewText("summary-hint", "Press F10 to write the configuration, esc to leave without saving."),
		), cwm.WithoutStoreOnLeave()),
	}, nil
}

func ingestBox(cfg *model.SetupConfig) cwm.Widget {
	return widgets.NewVBox("ingest-box",
		widgets.NewText("ingest-intro", "Lotus receives logs over OTLP and a plain TCP listener."),
		widgets.NewInputField("host", "Bind host",
			func() string { return cfg.Host }, func(s string) { cfg.Host = strings.TrimSpace(s) }).
			WithValidator(validHost).
			WithHelp("Address the listeners bind to. Use 0.0.0.0 to accept remote senders. "),
		widgets.NewCheckBox("tcp-enabled", "Enable TCP listener",
			func() bool { return cfg.TCPEnabled }, func(b bool) { cfg.TCPEnabled = b }),
		widgets.NewIntField("tcp-port", "TCP port",
			func() int { return cfg.TCPPort }, func(n int) { cfg.TCPPort = n }, 1, 65535).
			WithHelp("Port of the newline-delimited TCP listener. "),
		widgets.NewIntField("log-buffer", "Log buffer",
			func() int { return cfg.LogBuffer }, func(n int) { cfg.LogBuffer = n }, 1, 1_000_000).
			WithHelp("Number of recent log lines kept in memory for the dashboard. "),
	)
}

func storageBox(cfg *model.SetupConfig) cwm.Widget {
	return widgets.NewVBox("storage-box",
		widgets.NewInputField("db-path", "Database path",
			func() string { return cfg.DBPath }, func(s string) { cfg.DBPath = strings.TrimSpace(s) }).
			WithValidator(required("Database path")).
			WithHelp("DuckDB file holding the ingested logs. "),
		widgets.NewIntField("log-retention", "Retention (days)",
			func() int { return cfg.LogRetention }, func(n int) { cfg.LogRetention = n }, 0, 3650).
			WithHelp("Days of logs to keep; 0 keeps everything. "),
		durationField("query-timeout", "Query timeout", &cfg.QueryTimeout).
			WithHelp("Upper bound for a single dashboard or API query. "),
	)
}

func apiBox(cfg *model.SetupConfig) cwm.Widget {
	return widgets.NewVBox("api-box",
		widgets.NewCheckBox("api-enabled", "Enable HTTP API",
			func() bool { return cfg.APIEnabled }, func(b bool) { cfg.APIEnabled = b }).
			WithHelp("Serve the read-only query API. "),
		widgets.NewIntField("api-port", "API port",
			func() int { return cfg.APIPort }, func(n int) { cfg.APIPort = n }, 1, 65535),
	)
}

func backupBox(cfg *model.SetupConfig) cwm.Widget {
	return widgets.NewVBox("backup-box",
		widgets.NewCheckBox("backup-enabled", "Enable backups",
			func() bool { return cfg.BackupEnabled }, func(b bool) { cfg.BackupEnabled = b }).
			WithHelp("Periodically snapshot the database. "),
		durationField("backup-interval", "Interval", &cfg.BackupInterval),
		widgets.NewInputField("backup-local-dir", "Local directory",
			func() string { return cfg.BackupLocalDir }, func(s string) { cfg.BackupLocalDir = strings.TrimSpace(s) }).
			WithValidator(required("Local directory")),
		widgets.NewIntField("backup-keep-last", "Keep last",
			func() int { return cfg.BackupKeepLast }, func(n int) { cfg.BackupKeepLast = n }, 1, 1000).
			WithHelp("Number of local snapshots kept. "),
		widgets.NewInputField("backup-bucket-url", "Bucket URL",
			func() string { return cfg.BackupBucketURL }, func(s string) { cfg.BackupBucketURL = strings.TrimSpace(s) }).
			WithValidator(validBucketURL).
			WithPlaceholder("s3://bucket/prefix").
			WithHelp("Optional S3 location snapshots are uploaded to. "),
	)
}

func displayBox(cfg *model.SetupConfig) cwm.Widget {
	return widgets.NewVBox("display-box",
		durationField("update-interval", "Refresh interval", &cfg.UpdateInterval).
			WithHelp("How often the dashboard refreshes. "),
		widgets.NewChoice("skin", "Skin", widgets.Options(model.Skins...),
			func() string { return cfg.Skin }, func(s string) { cfg.Skin = s }),
		widgets.NewCheckBox("reverse-scroll-wheel", "Reverse scroll wheel",
			func() bool { return cfg.ReverseScrollWheel }, func(b bool) { cfg.ReverseScrollWheel = b }),
	)
}

// durationField edits a duration as text such as "2s" or "6h". Text that
// does not parse is not stored.
func durationField(id, label string, d *model.Duration) *widgets.InputField {
	return widgets.NewInputField(id, label,
		func() string { return d.String() },
		func(s string) {
			if v, err := parseDuration(s); err == nil {
				*d = model.Duration(v)
			}
		}).
		WithValidator(func(s string) error {
			_, err := parseDuration(s)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			return nil
		})
}

func parseDuration(s string) (time.Duration, error) {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("use a duration such as 30s or 6h")
	}
	if v <= 0 {
		return 0, errors.New("must be positive")
	}
	return v, nil
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func validHost(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return errors.New("bind host is required")
	case net.ParseIP(s) != nil, s == "localhost":
		return nil
	case strings.ContainsAny(s, " /:"):
		return fmt.Errorf("%q is not a host name or IP address", s)
	}
	return nil
}

func validBucketURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, _, err := backup.ParseBucketURL(s)
	return err
}
