package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Document  string // name of the hosted graph document
	TypesPath string // optional directory of .hcl type manifests

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Document == "" {
		return nil, errors.New("Document is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
