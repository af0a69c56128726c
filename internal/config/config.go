package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Env      string         `yaml:"env" env:"TODO_ENV" env-default:"prod"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Limits   LimitsConfig   `yaml:"limits"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"TODO_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TODO_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	// URL is a file path for sqlite and a connection string for postgres.
	URL string `yaml:"url" env:"DATABASE_URL" env-default:"data/todo.db"`
}

type LimitsConfig struct {
	MaxProjects        int `yaml:"max_projects" env:"MAX_PROJECTS" env-default:"10"`
	MaxTasksPerProject int `yaml:"max_tasks_per_project" env:"MAX_TASKS_PER_PROJECT" env-default:"100"`
}

type SweeperConfig struct {
	IntervalMinutes int `yaml:"interval_minutes" env:"SWEEP_INTERVAL_MINUTES" env-default:"15"`
}

// Interval converts the configured minutes into a duration.
func (c SweeperConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}
