package model

import "time"

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new jobs
	DefaultRollWidth    int    `json:"default_roll_width"`
	DefaultRollLength   int    `json:"default_roll_length"`
	DefaultMaxRowPieces int    `json:"default_max_row_pieces"`
	DefaultPolicy       Policy `json:"default_policy"`
	DefaultGCodeProfile string `json:"default_gcode_profile"`

	// Purchasing
	WastePercent  float64 `json:"waste_percent"`
	PricePerMeter float64 `json:"price_per_meter"`

	// Application preferences
	SearchTimeout  Duration `json:"search_timeout"` // per plan, 0 = no limit
	PrintCommand   string   `json:"print_command"`
	ServerAddr     string   `json:"server_addr"`
	RecentJobs     []string `json:"recent_jobs"`
	MaxRecentJobs  int      `json:"max_recent_jobs"`
	ReportLanguage string   `json:"report_language"` // currently only "en"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultRollWidth:    defaults.RollWidth,
		DefaultRollLength:   DefaultRollLength,
		DefaultMaxRowPieces: defaults.MaxRowPieces,
		DefaultPolicy:       defaults.Policy,
		DefaultGCodeProfile: "Generic",
		WastePercent:        10,
		PricePerMeter:       0,
		SearchTimeout:       Duration(30 * time.Second),
		PrintCommand:        "lpr",
		ServerAddr:          "127.0.0.1:8080",
		RecentJobs:          []string{},
		MaxRecentJobs:       10,
		ReportLanguage:      "en",
	}
}

// ApplyToJob copies the default values from AppConfig into a Job.
// This is used when creating a new job so it inherits the user's saved defaults.
func (c AppConfig) ApplyToJob(j *Job) {
	j.RollLength = c.DefaultRollLength
	j.Settings.RollWidth = c.DefaultRollWidth
	j.Settings.MaxRowPieces = c.DefaultMaxRowPieces
	j.Settings.Policy = c.DefaultPolicy
}

// AddRecentJob records path as the most recently used job file.
func (c *AppConfig) AddRecentJob(path string) {
	recent := []string{path}
	for _, p := range c.RecentJobs {
		if p != path {
			recent = append(recent, p)
		}
	}
	limit := c.MaxRecentJobs
	if limit <= 0 {
		limit = 10
	}
	if len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentJobs = recent
}

// Duration is a time.Duration that reads and writes as a string ("30s").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
