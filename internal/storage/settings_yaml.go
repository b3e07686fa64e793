package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sitless/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	SittingMinutes       int   `yaml:"sitting_minutes"`
	ActivityMinutes      int   `yaml:"activity_minutes"`
	DailyGoalSessions    int   `yaml:"daily_goal_sessions"`
	NotificationsEnabled *bool `yaml:"notifications_enabled"`
	SoundEnabled         *bool `yaml:"sound_enabled"`
	VibrationEnabled     *bool `yaml:"vibration_enabled"`
	IdleRestartEnabled   *bool `yaml:"idle_restart_enabled"`
	IdleRestartMinutes   int   `yaml:"idle_restart_minutes"`
	LaunchAtLogin        bool  `yaml:"launch_at_login"`
}

// SettingsPath returns the settings file inside dir.
func SettingsPath(dir string) string {
	return filepath.Join(dir, settingsFileName)
}

// LoadSettings reads user preferences from YAML.
// If the settings file does not exist, default settings are returned.
func LoadSettings(dir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(SettingsPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(dir string, settings preferences.Settings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		SittingMinutes:       int(settings.SittingDuration / time.Minute),
		ActivityMinutes:      int(settings.ActivityDuration / time.Minute),
		DailyGoalSessions:    settings.DailyGoal,
		NotificationsEnabled: boolPtr(settings.Notifications),
		SoundEnabled:         boolPtr(settings.Sound),
		VibrationEnabled:     boolPtr(settings.Vibration),
		IdleRestartEnabled:   boolPtr(settings.IdleRestart),
		IdleRestartMinutes:   int(settings.IdleRestartAfter / time.Minute),
		LaunchAtLogin:        settings.LaunchAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := writeFileAtomic(SettingsPath(dir), serialized); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// writeFileAtomic replaces path through a temp file and a rename, so a reader
// never sees a truncated file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), path)
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.SittingMinutes > 0 {
		settings.SittingDuration = time.Duration(fileData.SittingMinutes) * time.Minute
	}
	if fileData.ActivityMinutes > 0 {
		settings.ActivityDuration = time.Duration(fileData.ActivityMinutes) * time.Minute
	}
	if fileData.DailyGoalSessions > 0 {
		settings.DailyGoal = fileData.DailyGoalSessions
	}
	if fileData.IdleRestartMinutes > 0 {
		settings.IdleRestartAfter = time.Duration(fileData.IdleRestartMinutes) * time.Minute
	}

	if fileData.NotificationsEnabled != nil {
		settings.Notifications = *fileData.NotificationsEnabled
	}
	if fileData.SoundEnabled != nil {
		settings.Sound = *fileData.SoundEnabled
	}
	if fileData.VibrationEnabled != nil {
		settings.Vibration = *fileData.VibrationEnabled
	}
	if fileData.IdleRestartEnabled != nil {
		settings.IdleRestart = *fileData.IdleRestartEnabled
	}
	settings.LaunchAtLogin = fileData.LaunchAtLogin
}

func boolPtr(value bool) *bool {
	return &value
}
