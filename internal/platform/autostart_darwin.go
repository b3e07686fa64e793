//go:build darwin

package platform

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	label, path, err := launchAgentPath(appName)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := writeFileAtomic(path, buildLaunchAgentPlist(label, execPath)); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	_, path, err := launchAgentPath(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := removeIfExists(path); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func launchAgentPath(appName string) (string, string, error) {
	name, err := entryName(appName)
	if err != nil {
		return "", "", err
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("get home dir: %w", err)
	}
	label := "io.sitless." + name
	return label, filepath.Join(homeDir, "Library", "LaunchAgents", label+".plist"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func buildLaunchAgentPlist(label, execPath string) []byte {
	var plist bytes.Buffer
	plist.WriteString(xml.Header)
	plist.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	plist.WriteString("<plist version=\"1.0\">\n<dict>\n")
	writePlistString(&plist, "Label", label)
	plist.WriteString("\t<key>ProgramArguments</key>\n\t<array>\n\t\t<string>")
	_ = xml.EscapeText(&plist, []byte(execPath))
	plist.WriteString("</string>\n\t</array>\n")
	plist.WriteString("\t<key>RunAtLoad</key>\n\t<true/>\n")
	writePlistString(&plist, "ProcessType", "Interactive")
	plist.WriteString("</dict>\n</plist>\n")
	return plist.Bytes()
}

func writePlistString(plist *bytes.Buffer, key, value string) {
	plist.WriteString("\t<key>")
	plist.WriteString(key)
	plist.WriteString("</key>\n\t<string>")
	_ = xml.EscapeText(plist, []byte(value))
	plist.WriteString("</string>\n")
}
