package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Tradebook Configuration

[journal]
# Path to the SQLite journal database
database_path = ""
# Account currency code used for display
currency = "USD"

[analysis]
# Minimum number of logged trades before analysis runs
min_trades = 5
# Hour range (inclusive) of the weekday/hour performance grid
grid_start_hour = 7
grid_end_hour = 17

[enrichment]
# Enable optional AI enrichment of analysis reports
enabled = false
# Chat model used for enrichment
model = "gpt-4o-mini"
# Override the API base URL (leave empty for api.openai.com)
base_url = ""
# Request timeout (e.g., "30s")
timeout = "30s"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"
# Time format
time_format = "15:04"
`

const credentialsTemplate = `# Tradebook Credentials
# Only needed when enrichment is enabled.

[openai]
api_key = ""
`

// createTemplateConfig writes a commented config template so the user has
// something to edit on first run.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Credentials are secrets; keep the file user-only.
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}
	return nil
}
