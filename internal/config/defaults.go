package config

import "time"

// Defaults mirror the layout of the original deployment: status files under
// status_files/, ringtones under audios/, settings on :8080 and stop on :8081.
const (
	DefaultControllerStatusFile = "status_files/status_to_main_display.status"
	DefaultDisplayRequestFile   = "status_files/status_from_main_display_to_main.status"
	DefaultWebStatusFile        = "status_files/alarm_webserver_status.status"

	DefaultSettingsAddress  = ":8080"
	DefaultSettingsEndpoint = "/send_data"
	DefaultStopAddress      = ":8081"
	DefaultStopEndpoint     = "/stop_alarm"
	DefaultStopCommand      = "stop_alarm"

	DefaultRingtoneDir     = "audios"
	DefaultPlayerCommand   = "aplay"
	DefaultIdleRingTime    = "11:00"
	DefaultDisplayRingtone = "main_audio.wav"
	DefaultSnoozeSeconds   = 5

	DefaultControllerPoll  = 100 * time.Millisecond
	DefaultShutdownTimeout = 2 * time.Second

	DefaultDisplayPoll      = 100 * time.Millisecond
	DefaultStatusRetries    = 3
	DefaultStatusRetryDelay = time.Second
	DefaultStatusBackoff    = 10 * time.Second
	DefaultMenuTime         = "06:00"
	DefaultMenuStepMinutes  = 1
	DefaultHoldThreshold    = time.Second
	DefaultHoldMultiplier   = 5
	DefaultNoticeDuration   = 2 * time.Second

	DefaultBacklightPin       = 17
	DefaultBacklightThreshold = 100
	DefaultBacklightInterval  = 2 * time.Second

	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 7
)

// DefaultRingtones is the ringtone allow-list.
func DefaultRingtones() []string {
	return []string{
		"main_audio.wav",
		"audio1.wav",
		"audio2.wav",
		"audio3.wav",
		"audio4.wav",
		"custom_audio.wav",
	}
}

// DefaultControllerPins are the BCM pins of the stop and snooze buttons.
func DefaultControllerPins() map[string]int {
	return map[string]int{
		"stop":   14,
		"snooze": 15,
	}
}

// DefaultDisplayPins are the BCM pins of the display buttons.
func DefaultDisplayPins() map[string]int {
	return map[string]int{
		"confirm": 23,
		"down":    24,
		"up":      25,
		"menu":    8,
	}
}

//nolint:cyclop,funlen // A flat list of defaults reads better than helpers.
func applyDefaults(cfg *Config) {
	f := &cfg.Files
	setString(&f.ControllerStatus, DefaultControllerStatusFile)
	setString(&f.DisplayRequest, DefaultDisplayRequestFile)

	c := &cfg.Controller
	setString(&c.SettingsAddress, DefaultSettingsAddress)
	setString(&c.SettingsEndpoint, DefaultSettingsEndpoint)
	setString(&c.StopAddress, DefaultStopAddress)
	setString(&c.StopEndpoint, DefaultStopEndpoint)
	setString(&c.StopCommand, DefaultStopCommand)
	setString(&c.RingtoneDir, DefaultRingtoneDir)
	setString(&c.PlayerCommand, DefaultPlayerCommand)
	setString(&c.IdleRingTime, DefaultIdleRingTime)
	setString(&c.DisplayRingtone, DefaultDisplayRingtone)
	setInt(&c.DisplaySnoozeSeconds, DefaultSnoozeSeconds)
	setInt(&c.DefaultSnoozeSeconds, DefaultSnoozeSeconds)
	setDuration(&c.PollInterval, DefaultControllerPoll)
	setDuration(&c.ShutdownTimeout, DefaultShutdownTimeout)
	setString(&c.Inputs.Driver, DriverNone)

	if len(c.Ringtones) == 0 {
		c.Ringtones = DefaultRingtones()
	}

	if c.Inputs.Pins == nil {
		c.Inputs.Pins = DefaultControllerPins()
	}

	d := &cfg.Display
	setString(&d.Screen, ScreenLog)
	setDuration(&d.PollInterval, DefaultDisplayPoll)
	setInt(&d.StatusRetries, DefaultStatusRetries)
	setDuration(&d.StatusRetryDelay, DefaultStatusRetryDelay)
	setDuration(&d.StatusBackoff, DefaultStatusBackoff)
	setString(&d.MenuDefault, DefaultMenuTime)
	setInt(&d.MenuStepMinutes, DefaultMenuStepMinutes)
	setDuration(&d.HoldThreshold, DefaultHoldThreshold)
	setInt(&d.HoldMultiplier, DefaultHoldMultiplier)
	setDuration(&d.NoticeDuration, DefaultNoticeDuration)
	setInt(&d.Backlight.SensorPin, DefaultBacklightPin)
	setInt(&d.Backlight.Threshold, DefaultBacklightThreshold)
	setDuration(&d.Backlight.Interval, DefaultBacklightInterval)
	setString(&d.Inputs.Driver, DriverNone)

	if d.Inputs.Pins == nil {
		d.Inputs.Pins = DefaultDisplayPins()
	}

	l := &cfg.Log
	setString(&l.Level, DefaultLogLevel)
	setInt(&l.MaxSizeMB, DefaultLogMaxSizeMB)
	setInt(&l.MaxBackups, DefaultLogMaxBackups)
	setInt(&l.MaxAgeDays, DefaultLogMaxAgeDays)
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func setInt(dst *int, def int) {
	if *dst <= 0 {
		*dst = def
	}
}

func setDuration(dst *time.Duration, def time.Duration) {
	if *dst <= 0 {
		*dst = def
	}
}
