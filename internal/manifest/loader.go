package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rigup-dev/rigup/internal/errors"
)

// Load reads a normalized manifest document from disk. The engine's
// contract checks run here: version present, typed and supported, apps
// present and a sequence. Shape problems abort before any plan or apply
// work starts.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewManifestNotFoundError(path)
		}
		// The file exists but cannot be read; that is not "not found".
		return nil, errors.Wrap(errors.CodeParseError, fmt.Sprintf("cannot read manifest: %s", path), err)
	}
	return Parse(data, path)
}

// Parse validates and decodes manifest bytes. The path is only used in
// error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	// Generic pass first so type mistakes map onto the taxonomy instead
	// of a decoder error.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewParseError(path, err)
	}
	if err := validateShape(raw); err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewParseError(path, err)
	}
	if m.Apps == nil {
		m.Apps = []App{}
	}
	// Tolerated upstream as a warning; by contract the engine never
	// sees an empty app id, so reject it at the boundary.
	if err := m.Validate(); err != nil {
		return nil, err
	}

	// Upstream normalization guarantees these are present; loading a raw
	// file directly still has to honor that contract.
	if m.Restore == nil {
		m.Restore = []RestoreEntry{}
	}
	if m.Verify == nil {
		m.Verify = []VerifyEntry{}
	}

	return &m, nil
}

func validateShape(raw map[string]any) error {
	version, ok := raw["version"]
	if !ok {
		return errors.New(errors.CodeMissingVersion, "manifest is missing a version").
			WithRemediation("Add 'version: 1' to the manifest").
			WithDocsKey("manifest-versioning")
	}
	if _, ok := version.(int); !ok {
		return errors.New(errors.CodeInvalidVersionType, fmt.Sprintf("manifest version must be an integer, got %T", version)).
			WithRemediation("Set 'version: 1' without quotes")
	}

	apps, ok := raw["apps"]
	if !ok {
		return errors.New(errors.CodeMissingApps, "manifest has no apps section").
			WithRemediation("Add an 'apps' list (it may be empty)").
			WithDocsKey("manifest-files")
	}
	if _, ok := apps.([]any); !ok && apps != nil {
		return errors.New(errors.CodeInvalidAppsType, fmt.Sprintf("manifest apps must be a list, got %T", apps)).
			WithRemediation("Make 'apps' a YAML sequence of app entries")
	}
	return nil
}

// Validate checks an in-memory manifest against the engine contract:
// supported version, apps present, every app carrying an id.
func (m *Manifest) Validate() error {
	if m.Version == 0 {
		return errors.New(errors.CodeMissingVersion, "manifest is missing a version").
			WithRemediation("Add 'version: 1' to the manifest").
			WithDocsKey("manifest-versioning")
	}
	if m.Version != SupportedVersion {
		return errors.NewUnsupportedVersionError(m.Version)
	}
	if m.Apps == nil {
		return errors.New(errors.CodeMissingApps, "manifest has no apps section").
			WithRemediation("Add an 'apps' list (it may be empty)").
			WithDocsKey("manifest-files")
	}
	for i, app := range m.Apps {
		if app.ID == "" {
			return errors.New(errors.CodeInvalidAppEntry, fmt.Sprintf("app entry %d has no id", i)).
				WithRemediation("Give every app entry a stable id")
		}
	}
	return nil
}

// Save writes a manifest document to disk in normalized YAML form,
// creating the parent directory if needed.
func Save(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("write manifest file: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write manifest file: %w", err)
	}
	return nil
}
