package model

import (
	"errors"
	"fmt"
	"strings"
)

// SetupConfig is the configuration the wizard writes for the Lotus service.
// Keys match the service's own config file.
type SetupConfig struct {
	UpdateInterval Duration `mapstructure:"update-interval" yaml:"update-interval" toml:"update-interval"`
	LogBuffer      int      `mapstructure:"log-buffer" yaml:"log-buffer" toml:"log-buffer"`

	Host       string `mapstructure:"host" yaml:"host" toml:"host"`
	TCPEnabled bool   `mapstructure:"tcp-enabled" yaml:"tcp-enabled" toml:"tcp-enabled"`
	TCPPort    int    `mapstructure:"tcp-port" yaml:"tcp-port" toml:"tcp-port"`

	DBPath       string   `mapstructure:"db-path" yaml:"db-path" toml:"db-path"`
	LogRetention int      `mapstructure:"log-retention" yaml:"log-retention" toml:"log-retention"`
	QueryTimeout Duration `mapstructure:"query-timeout" yaml:"query-timeout" toml:"query-timeout"`

	APIEnabled bool `mapstructure:"api-enabled" yaml:"api-enabled" toml:"api-enabled"`
	APIPort    int  `mapstructure:"api-port" yaml:"api-port" toml:"api-port"`

	BackupEnabled   bool     `mapstructure:"backup-enabled" yaml:"backup-enabled" toml:"backup-enabled"`
	BackupInterval  Duration `mapstructure:"backup-interval" yaml:"backup-interval" toml:"backup-interval"`
	BackupLocalDir  string   `mapstructure:"backup-local-dir" yaml:"backup-local-dir" toml:"backup-local-dir"`
	BackupKeepLast  int      `mapstructure:"backup-keep-last" yaml:"backup-keep-last" toml:"backup-keep-last"`
	BackupBucketURL string   `mapstructure:"backup-bucket-url" yaml:"backup-bucket-url,omitempty" toml:"backup-bucket-url,omitempty"`

	Skin               string `mapstructure:"skin" yaml:"skin" toml:"skin"`
	ReverseScrollWheel bool   `mapstructure:"reverse-scroll-wheel" yaml:"reverse-scroll-wheel" toml:"reverse-scroll-wheel"`

	LicenseAccepted bool   `mapstructure:"license-accepted" yaml:"license-accepted" toml:"license-accepted"`
	Lang            string `mapstructure:"lang" yaml:"lang" toml:"lang"`
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the values the service refuses to start with.
func (c SetupConfig) Validate() error {
	var errs []error
	if err := validatePort("tcp-port", c.TCPPort, c.TCPEnabled); err != nil {
		errs = append(errs, err)
	}
	if err := validatePort("api-port", c.APIPort, c.APIEnabled); err != nil {
		errs = append(errs, err)
	}
	if c.TCPEnabled && c.APIEnabled && c.TCPPort == c.APIPort {
		errs = append(errs, fmt.Errorf("%w: tcp-port and api-port are both %d", ErrInvalidConfig, c.TCPPort))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, fmt.Errorf("%w: db-path is empty", ErrInvalidConfig))
	}
	if c.LogBuffer <= 0 {
		errs = append(errs, fmt.Errorf("%w: log-buffer must be positive", ErrInvalidConfig))
	}
	if c.LogRetention < 0 {
		errs = append(errs, fmt.Errorf("%w: log-retention must not be negative", ErrInvalidConfig))
	}
	if c.BackupEnabled {
		if strings.TrimSpace(c.BackupLocalDir) == "" {
			errs = append(errs, fmt.Errorf("%w: backup-local-dir is required when backup is enabled", ErrInvalidConfig))
		}
		if c.BackupInterval <= 0 {
			errs = append(errs, fmt.Errorf("%w: backup-interval must be positive", ErrInvalidConfig))
		}
	}
	if !c.LicenseAccepted {
		errs = append(errs, fmt.Errorf("%w: license not accepted", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

func validatePort(key string, port int, enabled bool) error {
	if !enabled {
		return nil
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: %s %d out of range 1-65535", ErrInvalidConfig, key, port)
	}
	return nil
}

// Section groups related keys for the summary page.
type Section struct {
	Name    string
	Changed []string // keys differing from the defaults
	Total   int
}

// Sections reports, per section, which keys differ from Defaults.
func (c SetupConfig) Sections() []Section {
	d := Defaults()
	diff := func(name string, pairs ...keyDiff) Section {
		s := Section{Name: name, Total: len(pairs)}
		for _, p := range pairs {
			if p.changed {
				s.Changed = append(s.Changed, p.key)
			}
		}
		return s
	}

	return []Section{
		diff("ingest",
			keyDiff{"host", c.Host != d.Host},
			keyDiff{"tcp-enabled", c.TCPEnabled != d.TCPEnabled},
			keyDiff{"tcp-port", c.TCPPort != d.TCPPort},
			keyDiff{"log-buffer", c.LogBuffer != d.LogBuffer},
		),
		diff("storage",
			keyDiff{"db-path", c.DBPath != d.DBPath},
			keyDiff{"log-retention", c.LogRetention != d.LogRetention},
			keyDiff{"query-timeout", c.QueryTimeout != d.QueryTimeout},
		),
		diff("api",
			keyDiff{"api-enabled", c.APIEnabled != d.APIEnabled},
			keyDiff{"api-port", c.APIPort != d.APIPort},
		),
		diff("backup",
			keyDiff{"backup-enabled", c.BackupEnabled != d.BackupEnabled},
			keyDiff{"backup-interval", c.BackupInterval != d.BackupInterval},
			keyDiff{"backup-local-dir", c.BackupLocalDir != d.BackupLocalDir},
			keyDiff{"backup-keep-last", c.BackupKeepLast != d.BackupKeepLast},
			keyDiff{"backup-bucket-url", c.BackupBucketURL != d.BackupBucketURL},
		),
		diff("display",
			keyDiff{"update-interval", c.UpdateInterval != d.UpdateInterval},
			keyDiff{"skin", c.Skin != d.Skin},
			keyDiff{"reverse-scroll-wheel", c.ReverseScrollWheel != d.ReverseScrollWheel},
		),
	}
}

type keyDiff struct {
	key     string
	changed bool
}
