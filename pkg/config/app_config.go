package config

import (
	"os"
	"path/filepath"

	"github.com/OpenPeeDeeP/xdg"
	"github.com/imdario/mergo"
	yaml "github.com/jesseduffield/yaml"
)

// AppConfig contains the base configuration fields required for sysbox-docker-cp.
type AppConfig struct {
	Debug       bool   `long:"debug" env:"DEBUG" default:"false"`
	Version     string `long:"version" env:"VERSION" default:"unversioned"`
	Commit      string `long:"commit" env:"COMMIT"`
	BuildDate   string `long:"build-date" env:"BUILD_DATE"`
	Name        string `long:"name" env:"NAME" default:"sysbox-docker-cp"`
	BuildSource string `long:"build-source" env:"BUILD_SOURCE" default:""`
	UserConfig  *UserConfig
	ConfigDir   string
}

// UserConfig holds all of the user-configurable options. The fields here are
// all in PascalCase but in your actual config.yml they'll be in camelCase.
// You can view the default config with `sysbox-docker-cp --config`.
type UserConfig struct {
	// SysboxDataRoot is the directory under which the Sysbox runtime keeps its
	// per-container state, notably the cloned rootfs trees at
	// <sysboxDataRoot>/rootfs/<container-id>
	SysboxDataRoot string `yaml:"sysboxDataRoot,omitempty"`

	// Runtime is the container runtime name this tool expects the target
	// container to be running under. Containers under any other runtime are
	// rejected before any copy is attempted
	Runtime string `yaml:"runtime,omitempty"`

	// Language determines the language of the messages shown to the user.
	// 'auto' detects it from the environment
	Language string `yaml:"language,omitempty"`

	// CommandTemplates determines what commands actually get called when we run
	// certain commands
	CommandTemplates CommandTemplatesConfig `yaml:"commandTemplates,omitempty"`

	// Logs determines how sysbox-docker-cp logs when --debug is given
	Logs LogsConfig `yaml:"logs,omitempty"`
}

// CommandTemplatesConfig determines what commands actually get called when we
// run certain commands
type CommandTemplatesConfig struct {
	// DockerCp is the raw copy command. The template receives .Flags, .Src and
	// .Dst; the exit code of whatever this resolves to is authoritative for
	// copy success or failure
	DockerCp string `yaml:"dockerCp,omitempty"`
}

// LogsConfig determines how sysbox-docker-cp logs when --debug is given
type LogsConfig struct {
	// LogLevel is one of the logrus levels: panic, fatal, error, warn, info,
	// debug, trace
	LogLevel string `yaml:"logLevel,omitempty"`
}

// GetDefaultConfig returns the application default configuration
func GetDefaultConfig() UserConfig {
	return UserConfig{
		SysboxDataRoot: "/var/lib/sysbox",
		Runtime:        "sysbox-runc",
		Language:       "auto",
		CommandTemplates: CommandTemplatesConfig{
			DockerCp: "docker cp {{ .Flags }} {{ .Src }} {{ .Dst }}",
		},
		Logs: LogsConfig{
			LogLevel: "debug",
		},
	}
}

// NewAppConfig makes a new app config
func NewAppConfig(name, version, commit, date string, buildSource string, debuggingFlag bool) (*AppConfig, error) {
	configDir, err := findOrCreateConfigDir(name)
	if err != nil {
		return nil, err
	}

	userConfig, err := loadUserConfigWithDefaults(configDir)
	if err != nil {
		return nil, err
	}

	appConfig := &AppConfig{
		Name:        name,
		Version:     version,
		Commit:      commit,
		BuildDate:   date,
		Debug:       debuggingFlag || os.Getenv("DEBUG") == "TRUE",
		BuildSource: buildSource,
		UserConfig:  userConfig,
		ConfigDir:   configDir,
	}

	return appConfig, nil
}

func findOrCreateConfigDir(projectName string) (string, error) {
	configDir := xdg.New("sysbox", projectName).ConfigHome()

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", err
	}

	return configDir, nil
}

func loadUserConfigWithDefaults(configDir string) (*UserConfig, error) {
	defaults := GetDefaultConfig()

	return loadUserConfig(configDir, &defaults)
}

func loadUserConfig(configDir string, defaults *UserConfig) (*UserConfig, error) {
	fileName := filepath.Join(configDir, "config.yml")

	content, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return nil, err
	}

	var userConfig UserConfig
	if err := yaml.Unmarshal(content, &userConfig); err != nil {
		return nil, err
	}

	// fill whatever the user left unset from the defaults
	if err := mergo.Merge(&userConfig, *defaults); err != nil {
		return nil, err
	}

	return &userConfig, nil
}

// ConfigFilename returns the filename of the current config file
func (c *AppConfig) ConfigFilename() string {
	return filepath.Join(c.ConfigDir, "config.yml")
}
