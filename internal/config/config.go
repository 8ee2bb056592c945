package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Config holds the settings of both processes. Each binary reads the
// sections it needs.
type Config struct {
	// Files locates the status files shared by the two processes.
	Files Files `yaml:"files" toml:"files"`
	// Controller configures the alarm scheduler process.
	Controller Controller `yaml:"controller" toml:"controller"`
	// Display configures the display process.
	Display Display `yaml:"display" toml:"display"`
	// Log configures the log sinks.
	Log Log `yaml:"log" toml:"log"`
}

// Files are the paths of the status files.
type Files struct {
	// ControllerStatus is the controller -> display record (3 lines).
	ControllerStatus string `yaml:"controller_status" toml:"controller_status"`
	// DisplayRequest is the display -> controller record (1 line).
	DisplayRequest string `yaml:"display_request" toml:"display_request"`
	// WebStatus is the active/inactive record read by the web front end.
	// Empty disables it.
	WebStatus string `yaml:"web_status,omitempty" toml:"web_status,omitempty"`
}

// Controller configures the scheduler, its HTTP services and playback.
type Controller struct {
	// SettingsAddress is the listen address of the settings intake service.
	SettingsAddress string `yaml:"settings_addr" toml:"settings_addr"`
	// SettingsEndpoint is the path accepting settings submissions.
	SettingsEndpoint string `yaml:"settings_endpoint" toml:"settings_endpoint"`
	// StopAddress is the listen address of the stop command service.
	StopAddress string `yaml:"stop_addr" toml:"stop_addr"`
	// StopEndpoint is the path accepting stop commands.
	StopEndpoint string `yaml:"stop_endpoint" toml:"stop_endpoint"`
	// StopCommand is the action token that stops the alarm.
	StopCommand string `yaml:"stop_command" toml:"stop_command"`
	// TemplateDir overrides the embedded confirmation pages when set.
	TemplateDir string `yaml:"template_dir,omitempty" toml:"template_dir,omitempty"`
	// RingtoneDir is the directory holding the ringtone files.
	RingtoneDir string `yaml:"ringtone_dir" toml:"ringtone_dir"`
	// Ringtones is the allow-list of playable file names.
	Ringtones []string `yaml:"ringtones" toml:"ringtones"`
	// PlayerCommand is the external program that plays a ringtone file.
	PlayerCommand string `yaml:"player_command" toml:"player_command"`
	// PlayerArgs are passed to PlayerCommand before the file path.
	PlayerArgs []string `yaml:"player_args,omitempty" toml:"player_args,omitempty"`
	// IdleRingTime is published as the ring time while no alarm is set.
	IdleRingTime string `yaml:"idle_ring_time" toml:"idle_ring_time"`
	// DisplayRingtone is used for alarms set from the display menu.
	DisplayRingtone string `yaml:"display_ringtone" toml:"display_ringtone"`
	// DisplaySnoozeSeconds is used for alarms set from the display menu.
	DisplaySnoozeSeconds int `yaml:"display_snooze_seconds" toml:"display_snooze_seconds"`
	// DefaultSnoozeSeconds replaces an unusable submitted snooze value.
	DefaultSnoozeSeconds int `yaml:"default_snooze_seconds" toml:"default_snooze_seconds"`
	// PollInterval paces the watcher, the countdown and the ringing loop.
	PollInterval time.Duration `yaml:"poll_interval" toml:"poll_interval"`
	// ShutdownTimeout bounds the graceful shutdown of the HTTP services.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	// HealthAddress enables the gRPC health endpoint when set.
	HealthAddress string `yaml:"health_addr,omitempty" toml:"health_addr,omitempty"`
	// Inputs selects the stop/snooze input driver and pins.
	Inputs Inputs `yaml:"inputs" toml:"inputs"`
}

// Display configures the render loop, the menu and the backlight.
type Display struct {
	// Screen is the output back-end: "log" or "tui".
	Screen string `yaml:"screen" toml:"screen"`
	// PollInterval paces the render loop and the menu.
	PollInterval time.Duration `yaml:"poll_interval" toml:"poll_interval"`
	// StatusRetries is the number of fast re-reads of a healed status.
	StatusRetries int `yaml:"status_retries" toml:"status_retries"`
	// StatusRetryDelay separates the fast re-reads.
	StatusRetryDelay time.Duration `yaml:"status_retry_delay" toml:"status_retry_delay"`
	// StatusBackoff is waited once the fast re-reads are exhausted.
	StatusBackoff time.Duration `yaml:"status_backoff" toml:"status_backoff"`
	// MenuDefault is the candidate time shown when the menu opens.
	MenuDefault string `yaml:"menu_default" toml:"menu_default"`
	// MenuStepMinutes is the adjustment per tick of a short press.
	MenuStepMinutes int `yaml:"menu_step_minutes" toml:"menu_step_minutes"`
	// HoldThreshold is the press duration after which steps accelerate.
	HoldThreshold time.Duration `yaml:"hold_threshold" toml:"hold_threshold"`
	// HoldMultiplier multiplies the step of a held input.
	HoldMultiplier int `yaml:"hold_multiplier" toml:"hold_multiplier"`
	// NoticeDuration is how long confirmation notices stay on screen.
	NoticeDuration time.Duration `yaml:"notice_duration" toml:"notice_duration"`
	// Backlight configures automatic backlight control.
	Backlight Backlight `yaml:"backlight" toml:"backlight"`
	// Inputs selects the up/down/menu/confirm input driver and pins.
	Inputs Inputs `yaml:"inputs" toml:"inputs"`
}

// Backlight configures the ambient light driven backlight.
type Backlight struct {
	// Enabled turns on the backlight control task.
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// SensorPin is the BCM pin of the RC light sensor.
	SensorPin int `yaml:"sensor_pin" toml:"sensor_pin"`
	// Threshold is the brightness reading above which the backlight is off.
	Threshold int `yaml:"threshold" toml:"threshold"`
	// Interval separates two sensor readings.
	Interval time.Duration `yaml:"interval" toml:"interval"`
}

// Inputs selects a digital input driver.
type Inputs struct {
	// Driver is "none", "rpio" or (display only) "tui".
	Driver string `yaml:"driver" toml:"driver"`
	// Pins maps input names to BCM pin numbers for the rpio driver.
	Pins map[string]int `yaml:"pins" toml:"pins"`
}

// Log configures the log sinks.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`
	// File enables a rotating log file when set.
	File string `yaml:"file,omitempty" toml:"file,omitempty"`
	// MaxSizeMB is the rotation size.
	MaxSizeMB int `yaml:"max_size_mb" toml:"max_size_mb"`
	// MaxBackups is the number of rotated files kept.
	MaxBackups int `yaml:"max_backups" toml:"max_backups"`
	// MaxAgeDays is the retention of rotated files.
	MaxAgeDays int `yaml:"max_age_days" toml:"max_age_days"`
}

// FileOptions returns the rotating file sink settings.
func (l Log) FileOptions() logger.FileOptions {
	return logger.FileOptions{
		Path:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
	}
}

// LevelOr returns override when set, otherwise the configured level.
func (l Log) LevelOr(override string) string {
	if override != "" {
		return override
	}

	return l.Level
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-clock-settings.yaml"

	// DefaultFilePermissions is the permission of files written by this project.
	DefaultFilePermissions = 0o644

	// ScreenLog renders display lines to the log.
	ScreenLog = "log"
	// ScreenTUI renders display lines in a terminal UI.
	ScreenTUI = "tui"

	// DriverNone reports every input as released.
	DriverNone = "none"
	// DriverRPIO reads inputs from GPIO pins.
	DriverRPIO = "rpio"
	// DriverTUI feeds inputs from the terminal UI keyboard.
	DriverTUI = "tui"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBadEndpoint is returned when an endpoint is not an absolute path.
	errBadEndpoint = errors.New("endpoint must start with /")
	// errBadScreen is returned for an unknown screen back-end.
	errBadScreen = errors.New("unknown screen")
	// errBadDriver is returned for an unknown input driver.
	errBadDriver = errors.New("unknown input driver")
	// errBadPin is returned for a negative pin number.
	errBadPin = errors.New("pin must not be negative")
	// errEmptyValue is returned when a required value is empty.
	errEmptyValue = errors.New("value must not be empty")
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{Files: Files{WebStatus: DefaultWebStatusFile}}

	//nolint:errcheck // Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		err = toml.Unmarshal(contents, &cfg)
	} else {
		err = yaml.Unmarshal(contents, &cfg)
	}

	if err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when the file does
// not exist.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), true, nil
	}

	return cfg, false, err
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)

	if isTOML(path) {
		var sb strings.Builder

		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}

	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks formats.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	c := &cfg.Controller

	for _, addr := range []string{c.SettingsAddress, c.StopAddress} {
		if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", addr, err)
		}
	}

	if c.HealthAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", c.HealthAddress); err != nil {
			return fmt.Errorf("invalid health address %q: %w", c.HealthAddress, err)
		}
	}

	for _, endpoint := range []string{c.SettingsEndpoint, c.StopEndpoint} {
		if !strings.HasPrefix(endpoint, "/") {
			return fmt.Errorf("%q: %w", endpoint, errBadEndpoint)
		}
	}

	if _, err := alarm.ParseRingTime(c.IdleRingTime); err != nil {
		return fmt.Errorf("idle_ring_time: %w", err)
	}

	if _, err := alarm.ParseRingTime(cfg.Display.MenuDefault); err != nil {
		return fmt.Errorf("menu_default: %w", err)
	}

	if strings.TrimSpace(c.StopCommand) == "" {
		return fmt.Errorf("stop_command: %w", errEmptyValue)
	}

	if strings.TrimSpace(c.PlayerCommand) == "" {
		return fmt.Errorf("player_command: %w", errEmptyValue)
	}

	switch cfg.Display.Screen {
	case ScreenLog, ScreenTUI:
	default:
		return fmt.Errorf("%q: %w", cfg.Display.Screen, errBadScreen)
	}

	if err := validateInputs(c.Inputs, false); err != nil {
		return fmt.Errorf("controller inputs: %w", err)
	}

	if err := validateInputs(cfg.Display.Inputs, true); err != nil {
		return fmt.Errorf("display inputs: %w", err)
	}

	if cfg.Display.Backlight.SensorPin < 0 {
		return fmt.Errorf("backlight sensor_pin: %w", errBadPin)
	}

	return nil
}

func validateInputs(in Inputs, allowTUI bool) error {
	switch in.Driver {
	case DriverNone, DriverRPIO:
	case DriverTUI:
		if !allowTUI {
			return fmt.Errorf("%q: %w", in.Driver, errBadDriver)
		}
	default:
		return fmt.Errorf("%q: %w", in.Driver, errBadDriver)
	}

	for name, pin := range in.Pins {
		if pin < 0 {
			return fmt.Errorf("%s: %w", name, errBadPin)
		}
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
