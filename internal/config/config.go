// Package config loads pipeline configuration: a YAML file for paths and
// store settings, the environment (optionally a .env file) for credentials.
package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// StoreConfig selects and parameterizes the artifact store backend.
type StoreConfig struct {
	Kind      string `yaml:"kind"`   // "s3" or "fs"
	Bucket    string `yaml:"bucket"` // s3 only
	Region    string `yaml:"region"` // s3 only
	Dir       string `yaml:"dir"`    // fs only
	ModelKey  string `yaml:"model_key"`
	MetricKey string `yaml:"metric_key"`
}

// MongoConfig locates the source collection for dataset export.
// Credentials come from the environment, never from the file.
type MongoConfig struct {
	Host       string `yaml:"host"`
	AppName    string `yaml:"app_name"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// Config is the full pipeline configuration.
type Config struct {
	Store      StoreConfig `yaml:"store"`
	ReportPath string      `yaml:"report_path"`
	RunLogPath string      `yaml:"runlog_path"`
	Mongo      MongoConfig `yaml:"mongo"`
}

// Default returns the configuration matching the deployed pipeline's
// well-known locations.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Kind:      "s3",
			Bucket:    "vehicle-insurance-model-store",
			Region:    "us-east-1",
			Dir:       ".modelgate/store",
			ModelKey:  "model.pkl",
			MetricKey: "metrics.yaml",
		},
		ReportPath: "artifact/model_evaluation/report.yaml",
		RunLogPath: ".modelgate/runs.db",
		Mongo: MongoConfig{
			Database:   "Vehicle-Insurance-DB",
			Collection: "Vehicle-Insurance-Data",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads a .env file into the process environment if one exists.
// Missing files are fine; real environments set the variables directly.
func LoadEnv() {
	_ = godotenv.Load()
}

// MongoURI builds the connection string. MONGODB_URI wins outright;
// otherwise the URI is assembled from MONGODB_USERNAME / MONGODB_PASSWORD
// and the configured cluster host.
func (c MongoConfig) MongoURI() (string, error) {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri, nil
	}
	user := os.Getenv("MONGODB_USERNAME")
	pass := os.Getenv("MONGODB_PASSWORD")
	if user == "" || pass == "" {
		return "", fmt.Errorf("config: MONGODB_USERNAME or MONGODB_PASSWORD is not set")
	}
	if c.Host == "" {
		return "", fmt.Errorf("config: mongo host is not configured")
	}
	uri := fmt.Sprintf("mongodb+srv://%s@%s/", url.UserPassword(user, pass).String(), c.Host)
	if c.AppName != "" {
		uri += "?appName=" + url.QueryEscape(c.AppName)
	}
	return uri, nil
}
