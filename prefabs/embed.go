package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// Dir is where on-disk copies of prefabs are looked up. A file there wins
// over the embedded one with the same name, so edits can be hot reloaded.
var Dir = "prefabs"

// Load reads a yaml prefab, e.g. "moves.yaml" or "prefabs/moves.yaml".
func Load(name string) ([]byte, error) {
	return read(PrefabsFS, cleanPrefabPath(name))
}

// LoadScript reads a tengo script; the scripts/ directory is implied.
func LoadScript(name string) ([]byte, error) {
	return read(ScriptsFS, cleanScriptPath(name))
}

func read(fsys embed.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return fsys.ReadFile(clean)
}

// trimRoots strips each root in turn from the front of path.
func trimRoots(path string, roots ...string) string {
	s := filepath.ToSlash(path)
	for _, r := range roots {
		s = strings.TrimPrefix(s, r)
	}
	return s
}

func cleanPrefabPath(path string) string {
	return trimRoots(path, "prefabs/")
}

func cleanScriptPath(path string) string {
	s := trimRoots(path, "prefabs/", "scripts/")
	if s == "" {
		return ""
	}
	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
