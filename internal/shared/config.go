package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Portal    PortalsConfig   `toml:"portal"`
	Client    ClientConfig    `toml:"client"`
	Migration MigrationConfig `toml:"migration"`
	Stages    StagesConfig    `toml:"stages"`
	Ledger    LedgerConfig    `toml:"ledger"`
	Server    ServerConfig    `toml:"server"`
}

// PortalsConfig holds credentials for the two portal accounts.
type PortalsConfig struct {
	Source PortalConfig `toml:"source"`
	Dest   PortalConfig `toml:"dest"`
}

// PortalConfig contains the REST credentials for one portal account.
//
// WebhookToken selects inbound-webhook auth (token embedded in the base URL).
// AccessToken selects OAuth bearer auth and takes precedence when set.
type PortalConfig struct {
	Domain       string `toml:"domain"`
	UserID       int    `toml:"user_id"`
	WebhookToken string `toml:"webhook_token"`
	AccessToken  string `toml:"access_token"`
}

// ClientConfig contains throughput settings shared by both portal clients.
type ClientConfig struct {
	RequestIntervalMS int `toml:"request_interval_ms"`
	TimeoutSeconds    int `toml:"timeout_seconds"`
}

// MigrationConfig describes one source group to destination group migration.
type MigrationConfig struct {
	SourceGroupID   int    `toml:"source_group_id"`
	DestGroupID     int    `toml:"dest_group_id"`
	OperatorID      int    `toml:"operator_id"`
	FolderID        int    `toml:"folder_id"`
	TaskFile        string `toml:"task_file"`
	CopyTags        bool   `toml:"copy_tags"`
	CopyAttachments bool   `toml:"copy_attachments"`
}

// StagesConfig holds the static source to destination stage mapping.
//
// TOML table keys are strings, so the map is keyed by the decimal source
// stage id; use [StagesConfig.StageMap] for the numeric form.
type StagesConfig struct {
	Default int            `toml:"default"`
	Map     map[string]int `toml:"map"`
}

// StageMap converts the TOML string-keyed mapping to its numeric form.
// Entries with non-numeric keys are skipped.
func (s StagesConfig) StageMap() map[int]int {
	m := make(map[int]int, len(s.Map))
	for k, v := range s.Map {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		m[id] = v
	}
	return m
}

// LedgerConfig contains checkpoint ledger persistence settings.
type LedgerConfig struct {
	Backend  string `toml:"backend"`
	DoneFile string `toml:"done_file"`
	MapFile  string `toml:"map_file"`
	Database string `toml:"database"`
}

// ServerConfig contains HTTP front-door settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
