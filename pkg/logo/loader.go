// loader.go — Load .logo.json / .logo.yaml files and .logopack (ZIP) bundles.
package logo

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// BundleExt is the extension of ZIP bundles holding a description and its assets.
const BundleExt = ".logopack"

var (
	bundleManifests = []string{"logo.json", "logo.yaml", "logo.yml"}
	yamlLineRegex   = regexp.MustCompile(`line (\d+)`)
)

// Format identifies the encoding of a description.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks a format from a file name. Anything not YAML is JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses and validates a description. name is used in errors.
func Decode(name string, data []byte, format Format) (*Logo, error) {
	l := &Logo{Icon: Icon{Padding: DefaultPadding}}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, l); err != nil {
			return nil, &ParseError{Path: name, Line: extractLine(err), Err: err}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(l); err != nil {
			return nil, &ParseError{Path: name, Err: err}
		}
	}

	if err := Validate(l); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadFile reads a standalone description. Layer paths are resolved
// relative to the file's directory.
func LoadFile(path string) (*Logo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	l, err := Decode(path, data, FormatFor(path))
	if err != nil {
		return nil, err
	}
	ResolvePaths(l, filepath.Dir(path))
	return l, nil
}

// Load dispatches on the extension: bundles are extracted, anything else
// is read as a standalone file. The cleanup function is never nil.
func Load(path string) (*Logo, func(), error) {
	if strings.EqualFold(filepath.Ext(path), BundleExt) {
		return LoadBundle(path)
	}
	l, err := LoadFile(path)
	return l, func() {}, err
}

// LoadBundle opens a .logopack ZIP, extracts it to a temp directory, parses
// the manifest and resolves all layer paths. The returned cleanup function
// removes the temp directory.
func LoadBundle(path string) (*Logo, func(), error) {
	noop := func() {}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, noop, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	tmpDir, err := os.MkdirTemp("", "logopack-*")
	if err != nil {
		return nil, noop, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	if err := extractZip(&r.Reader, tmpDir); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("extract %s: %w", path, err)
	}

	l, err := readManifest(tmpDir)
	if err != nil {
		cleanup()
		return nil, noop, err
	}

	ResolvePaths(l, tmpDir)
	return l, cleanup, nil
}

func readManifest(dir string) (*Logo, error) {
	for _, name := range bundleManifests {
		p := filepath.Join(dir, name)
		data, err := os.ReadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return Decode(name, data, FormatFor(name))
	}
	return nil, fmt.Errorf("bundle has no manifest (%s)", strings.Join(bundleManifests, ", "))
}

// ReadBundle reads a .logopack held in memory. It returns the decoded
// manifest with layer paths as written in the archive, and every other
// file keyed by its slash-separated archive path.
func ReadBundle(r io.ReaderAt, size int64) (*Logo, map[string][]byte, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("open bundle: %w", err)
	}

	var (
		manifest     []byte
		manifestName string
		files        = make(map[string][]byte)
	)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Clean(strings.ReplaceAll(f.Name, "\\", "/"))
		if !fs.ValidPath(name) {
			return nil, nil, fmt.Errorf("illegal path in zip: %s", f.Name)
		}

		data, err := readZipFile(f)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		if manifestRank(name) < manifestRank(manifestName) {
			if manifestName != "" {
				files[manifestName] = manifest
			}
			manifest, manifestName = data, name
			continue
		}
		files[name] = data
	}

	if manifestName == "" {
		return nil, nil, fmt.Errorf("bundle has no manifest (%s)", strings.Join(bundleManifests, ", "))
	}
	l, err := Decode(manifestName, manifest, FormatFor(manifestName))
	if err != nil {
		return nil, nil, err
	}
	return l, files, nil
}

// manifestRank orders manifest names by preference; non-manifests rank last.
func manifestRank(name string) int {
	for i, m := range bundleManifests {
		if name == m {
			return i
		}
	}
	return len(bundleManifests)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ResolvePaths makes relative layer paths absolute using baseDir.
func ResolvePaths(l *Logo, baseDir string) {
	for i := range l.Icon.Layers {
		p := l.Icon.Layers[i].Path
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		l.Icon.Layers[i].Path = filepath.Join(baseDir, p)
	}
}

// WriteBundle writes a .logopack archive: the description as logo.json and
// every asset under its given name.
func WriteBundle(w io.Writer, l *Logo, assets map[string][]byte) error {
	zw := zip.NewWriter(w)

	mw, err := zw.Create("logo.json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode logo.json: %w", err)
	}

	for name, data := range assets {
		aw, err := zw.Create(filepath.ToSlash(name))
		if err != nil {
			return err
		}
		if _, err := aw.Write(data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// extractZip extracts all files from a zip reader into destDir.
func extractZip(r *zip.Reader, destDir string) error {
	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)

		// Guard against zip slip.
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in zip: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func extractLine(err error) int {
	m := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(m) != 2 {
		return 0
	}
	line, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return line
}
