package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

type Reader interface {
	Read() (*Config, error)
}

// EnvReader fills the configuration from environment variables only.
type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// FileReader reads a YAML, TOML, JSON or .env file and lets environment
// variables override it.
type FileReader struct {
	path string
}

func NewFileReader(path string) FileReader {
	return FileReader{path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadConfig(r.path, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewReader returns a FileReader for path, or an EnvReader when path is empty.
func NewReader(path string) Reader {
	if path != "" {
		return NewFileReader(path)
	}
	return NewEnvReader()
}

// Load reads the configuration through the reader selected for path.
func Load(path string) (*Config, error) {
	return NewReader(path).Read()
}
