package manifest

// Manifest is the normalized machine profile handed to the engine.
// Resolution (includes, comment stripping, defaulting) happens upstream;
// by the time a Manifest reaches plan or apply, Restore and Verify are
// present (possibly empty) and every app carries an id.
type Manifest struct {
	Version  int            `yaml:"version" json:"version"`
	Name     string         `yaml:"name" json:"name"`
	Captured string         `yaml:"captured,omitempty" json:"captured,omitempty"`
	Apps     []App          `yaml:"apps" json:"apps"`
	Restore  []RestoreEntry `yaml:"restore" json:"restore"`
	Verify   []VerifyEntry  `yaml:"verify" json:"verify"`
}

// App is one desired piece of software. Refs maps platform name to the
// backend-specific package reference, e.g. {windows: "Git.Git"}. An app
// with no ref for the current platform simply does not apply to that run.
type App struct {
	ID   string            `yaml:"id" json:"id"`
	Refs map[string]string `yaml:"refs" json:"refs"`
}

// RestoreEntry names a captured path to put back on the machine.
type RestoreEntry struct {
	ID   string `yaml:"id" json:"id"`
	Path string `yaml:"path" json:"path"`
}

// VerifyEntry names a postcondition to check after apply.
type VerifyEntry struct {
	ID   string `yaml:"id" json:"id"`
	Path string `yaml:"path" json:"path"`
}

// SupportedVersion is the only manifest document version this build accepts.
const SupportedVersion = 1

// RefFor returns the package reference for the given platform, and whether
// one exists.
func (a App) RefFor(platform string) (string, bool) {
	ref, ok := a.Refs[platform]
	return ref, ok && ref != ""
}
