package core

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const ConfigFile = "pokedex.config.yml"

type Config struct {
	APIBaseURL      string        `yaml:"apiBaseURL"`
	ListLimit       int           `yaml:"listLimit"`
	ListConcurrency int           `yaml:"listConcurrency"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
	OutputDir       string        `yaml:"outputDir"`
	TemplatesDir    string        `yaml:"templatesDir"`
	PublicDir       string        `yaml:"publicDir"`
	DebugHeaders    bool          `yaml:"debugHeaders"`
	DebugLogs       bool          `yaml:"debugLogs"`
}

func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:      "https://pokeapi.co/api/v2/",
		ListLimit:       12,
		ListConcurrency: 1,
		OutputDir:       "./cache",
		TemplatesDir:    "templates",
		PublicDir:       "public",
	}
}

var LoadConfig = func(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return cfg
	}

	cfg.merge(fromFile)
	return cfg
}

func (c *Config) merge(other Config) {
	if other.APIBaseURL != "" {
		c.APIBaseURL = other.APIBaseURL
	}
	if other.ListLimit > 0 {
		c.ListLimit = other.ListLimit
	}
	if other.ListConcurrency > 0 {
		c.ListConcurrency = other.ListConcurrency
	}
	if other.RequestTimeout > 0 {
		c.RequestTimeout = other.RequestTimeout
	}
	if other.OutputDir != "" {
		c.OutputDir = other.OutputDir
	}
	if other.TemplatesDir != "" {
		c.TemplatesDir = other.TemplatesDir
	}
	if other.PublicDir != "" {
		c.PublicDir = other.PublicDir
	}
	c.DebugHeaders = other.DebugHeaders
	c.DebugLogs = other.DebugLogs
}
