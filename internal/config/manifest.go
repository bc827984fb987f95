package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultSourceBaseURL = "https://raw.githubusercontent.com/eisildak/beaconBroadcaster_raspberry/main/raspberry-pi-web-ui"
	defaultLauncher      = "run_detached.sh"
	defaultSessionName   = "beacon_simulator"
	defaultServicePort   = 5000
)

// ManifestEntry is one file placed on the target device. Source is relative
// to the manifest's SourceBaseURL, Destination to the project directory.
type ManifestEntry struct {
	Name        string `yaml:"name"`
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Backup      bool   `yaml:"backup"`
}

// Manifest describes what gets deployed to the Raspberry Pi and how the
// simulator service is started. It is treated as read-only once loaded.
type Manifest struct {
	SourceBaseURL string          `yaml:"sourceBaseUrl"`
	Entries       []ManifestEntry `yaml:"entries"`
	Launcher      string          `yaml:"launcher"`
	SessionName   string          `yaml:"sessionName"`
	Dependencies  []string        `yaml:"dependencies"`
	ServicePort   int             `yaml:"servicePort"`
}

func DefaultManifest() Manifest {
	return Manifest{
		SourceBaseURL: defaultSourceBaseURL,
		Entries: []ManifestEntry{
			{Name: "simulate_beacon.py", Source: "simulate_beacon.py", Destination: "simulate_beacon.py", Backup: true},
			{Name: "index.html", Source: "index.html", Destination: "index.html"},
			{Name: "beacons_config.json", Source: "beacons_config.json", Destination: "beacons_config.json"},
			{Name: defaultLauncher, Source: defaultLauncher, Destination: defaultLauncher},
		},
		Launcher:     defaultLauncher,
		SessionName:  defaultSessionName,
		Dependencies: []string{"flask", "flask-cors"},
		ServicePort:  defaultServicePort,
	}
}

// Clone returns a deep copy so callers can hold the manifest without sharing
// the backing slices.
func (m Manifest) Clone() Manifest {
	out := m
	out.Entries = append([]ManifestEntry(nil), m.Entries...)
	out.Dependencies = append([]string(nil), m.Dependencies...)
	return out
}

// Names lists the entry names in deployment order.
func (m Manifest) Names() []string {
	names := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		names = append(names, e.Name)
	}
	return names
}

// LauncherEntry returns the entry whose destination is the launcher script.
func (m Manifest) LauncherEntry() (ManifestEntry, bool) {
	for _, e := range m.Entries {
		if e.Destination == m.Launcher {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

func (m Manifest) Validate() error {
	if m.SourceBaseURL == "" {
		return fmt.Errorf("manifest source base url is empty")
	}
	if len(m.Entries) == 0 {
		return fmt.Errorf("manifest has no entries")
	}
	seen := make(map[string]bool, len(m.Entries))
	for i, e := range m.Entries {
		if e.Name == "" || e.Source == "" || e.Destination == "" {
			return fmt.Errorf("manifest entry %d is incomplete", i)
		}
		if seen[e.Destination] {
			return fmt.Errorf("manifest destination %q listed twice", e.Destination)
		}
		seen[e.Destination] = true
	}
	if m.SessionName == "" {
		return fmt.Errorf("manifest session name is empty")
	}
	if _, ok := m.LauncherEntry(); !ok {
		return fmt.Errorf("manifest launcher %q is not one of its entries", m.Launcher)
	}
	if m.ServicePort < 1 || m.ServicePort > 65535 {
		return fmt.Errorf("manifest service port out of range: %d", m.ServicePort)
	}
	return nil
}

// LoadManifest reads a YAML manifest. Fields left out of the file keep their
// default values; a file that lists entries replaces the default list.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest %s: %w", path, err)
	}

	manifest := DefaultManifest()
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := manifest.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return manifest, nil
}
