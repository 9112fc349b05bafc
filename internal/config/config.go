// Package config persists the application's connection settings as JSON under
// the user's home directory. Saves are serialized across processes with a
// lock file, since scripted invocations of the CLI regularly run in parallel.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/docuflow/sharepoint-client/pkg/sharepoint"
)

const configDir = ".sharepoint-client"
const configFile = "config.json"
const lockFile = "config.lock"

// Configuration holds all persisted settings: the deployment location, the
// credential set for the selected authentication mode, and CLI preferences.
type Configuration struct {
	URI            string `json:"uri"`
	Authentication string `json:"authentication"`

	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	TenantID     string `json:"tenant_id,omitempty"`
	CertName     string `json:"cert_name,omitempty"`
	AuthScope    string `json:"auth_scope,omitempty"`
	TokenURL     string `json:"token_url,omitempty"`

	SitePath   string `json:"site_path,omitempty"`
	BaseFolder string `json:"base_folder,omitempty"`
	BaseURI    string `json:"base_uri,omitempty"`

	Debug bool `json:"debug"`

	mu sync.Mutex
}

// ToClientConfig maps the persisted settings onto the SDK configuration.
func (c *Configuration) ToClientConfig(logger sharepoint.Logger) sharepoint.Config {
	return sharepoint.Config{
		URI:            c.URI,
		Authentication: c.Authentication,
		Username:       c.Username,
		Password:       c.Password,
		ClientID:       c.ClientID,
		ClientSecret:   c.ClientSecret,
		TenantID:       c.TenantID,
		CertName:       c.CertName,
		AuthScope:      c.AuthScope,
		TokenURL:       c.TokenURL,
		SitePath:       c.SitePath,
		BaseFolder:     c.BaseFolder,
		BaseURI:        c.BaseURI,
		Logger:         logger,
	}
}

// Save persists the configuration to disk. The write is guarded by a mutex
// within the process and a lock file across processes.
func (c *Configuration) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config to JSON: %v", err)
	}

	dirPath, err := configDirPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		if err := os.Mkdir(dirPath, 0700); err != nil {
			return fmt.Errorf("creating config directory: %v", err)
		}
	}

	lock := flock.New(filepath.Join(dirPath, lockFile))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking config file: %v", err)
	}
	defer lock.Unlock()

	if err := os.WriteFile(filepath.Join(dirPath, configFile), jsonData, 0600); err != nil {
		return fmt.Errorf("writing configuration file: %v", err)
	}
	return nil
}

// Load reads the configuration file from disk.
func Load() (*Configuration, error) {
	dirPath, err := configDirPath()
	if err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(filepath.Join(dirPath, configFile))
	if err != nil {
		return nil, err
	}

	config := &Configuration{}
	if err := json.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("unmarshalling json: %v", err)
	}
	return config, nil
}

// LoadOrCreate loads the configuration file, returning a fresh empty
// configuration when none exists yet.
func LoadOrCreate() (*Configuration, error) {
	config, err := Load()
	if err != nil {
		if os.IsNotExist(err) {
			return &Configuration{Authentication: sharepoint.AuthNTLM}, nil
		}
		return nil, err
	}
	return config, nil
}

func configDirPath() (string, error) {
	// SHAREPOINT_CLIENT_CONFIG_DIR overrides the default location, mainly
	// for tests and containerized runs without a home directory.
	if override := os.Getenv("SHAREPOINT_CLIENT_CONFIG_DIR"); override != "" {
		return override, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %v", err)
	}
	return filepath.Join(homeDir, configDir), nil
}
