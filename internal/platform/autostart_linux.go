//go:build linux

package platform

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	path, err := service.desktopEntryPath(appName)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := writeFileAtomic(path, []byte(buildDesktopEntry(appName, execPath))); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	path, err := service.desktopEntryPath(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := removeIfExists(path); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func (service *platformService) desktopEntryPath(appName string) (string, error) {
	name, err := entryName(appName)
	if err != nil {
		return "", err
	}
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", name+".desktop"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

// buildDesktopEntry renders an XDG autostart entry.
func buildDesktopEntry(appName, execPath string) string {
	lines := [][2]string{
		{"Type", "Application"},
		{"Name", appName},
		{"Comment", "Sitting and activity break reminder"},
		{"Exec", quoteExecArg(execPath)},
		{"Terminal", "false"},
		{"X-GNOME-Autostart-enabled", "true"},
	}
	var entry strings.Builder
	entry.WriteString("[Desktop Entry]\n")
	for _, line := range lines {
		entry.WriteString(line[0])
		entry.WriteByte('=')
		entry.WriteString(line[1])
		entry.WriteByte('\n')
	}
	return entry.String()
}

// quoteExecArg quotes an Exec argument per the desktop entry rules.
func quoteExecArg(arg string) string {
	if !strings.ContainsAny(arg, " \t\"'\\><~|&;$*?#()`") {
		return arg
	}
	escaper := strings.NewReplacer(`"`, `\"`, "`", "\\`", `$`, `\$`, `\`, `\\`)
	return `"` + escaper.Replace(arg) + `"`
}
