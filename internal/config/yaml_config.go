package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Claim mappings and catalogs are easier to manage in YAML than env vars.
type YAMLConfig struct {
	Roles    RolesConfig   `yaml:"roles"`
	Catalogs CatalogConfig `yaml:"catalogs"`
}

// RolesConfig maps identity provider claim values onto application roles.
type RolesConfig struct {
	Claim    string              `yaml:"claim"`    // Overrides OIDC_ROLE_CLAIM when set
	Mappings map[string][]string `yaml:"mappings"` // Role -> claim values granting it
}

// CatalogConfig lists suggested values shown by clients. They are hints, not
// validation rules.
type CatalogConfig struct {
	TrailTypes []string `yaml:"trail_types" json:"trail_types"`
	Features   []string `yaml:"features" json:"features"`
	Amenities  []string `yaml:"amenities" json:"amenities"`
	Facilities []string `yaml:"facilities" json:"facilities"`
	Seasons    []string `yaml:"seasons" json:"seasons"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns an empty config without error if the file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFile loads the YAML configuration from path.
func LoadYAMLConfigFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultYAMLConfig(), nil
		}
		return nil, err
	}

	cfg := defaultYAMLConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultYAMLConfig() *YAMLConfig {
	return &YAMLConfig{
		Catalogs: CatalogConfig{
			TrailTypes: []string{"loop", "out_and_back", "point_to_point"},
			Seasons:    []string{"spring", "summer", "fall", "winter"},
		},
	}
}

// ClaimValuesForRole returns the claim values that grant role.
func (c *YAMLConfig) ClaimValuesForRole(role string) []string {
	if c == nil || c.Roles.Mappings == nil {
		return nil
	}
	return c.Roles.Mappings[role]
}
