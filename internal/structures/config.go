package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath      string        `yaml:"filePath" validate:"required|unixPath"`
	ArchiveDir    string        `yaml:"archiveDir"`
	ArchiveTTL    time.Duration `yaml:"archiveTTL"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StudyConfig struct {
	Variants int `yaml:"variants" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type AdminConfig struct {
	// APIKey guards the clear endpoint. Empty disables clearing entirely:
	// there is no fallback default key.
	APIKey string `yaml:"apiKey"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Study       StudyConfig   `yaml:"study"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Admin       AdminConfig   `yaml:"admin"`
}
