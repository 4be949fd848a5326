package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ManifestName = "copyspec.yaml"
	copyDir      = "logs"
)

// Manifest is written next to the artifacts and lists what was staged and
// what was actually copied.
type Manifest struct {
	CopySpecs []string `yaml:"copySpecs"`
	Copied    []string `yaml:"copied"`
}

// Bundle is a Host backed by a plain directory.
type Bundle struct {
	dir       string
	copySpecs []string
}

func NewBundle(dir string) (*Bundle, error) {
	if dir == "" {
		return nil, errors.New("bundle directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bundle directory: %w", err)
	}
	return &Bundle{dir: dir}, nil
}

func (b *Bundle) Dir() string { return b.dir }

func (b *Bundle) CopySpecs() []string { return b.copySpecs }

func (b *Bundle) AddStringAsFile(content, name string) error {
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	path := filepath.Join(b.dir, name)

	var prefix string
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		prefix = "\n"
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", name, err)
	}
	defer f.Close()

	if _, err := f.WriteString(prefix + content); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	return nil
}

func (b *Bundle) AddCopySpec(glob string) error {
	if _, err := filepath.Match(glob, ""); err != nil {
		return fmt.Errorf("invalid copy spec %q: %w", glob, err)
	}
	b.copySpecs = append(b.copySpecs, glob)
	return nil
}

// Finalize copies every regular file matched by the staged copy specs into
// the bundle and writes the manifest. Copy failures are collected and
// returned together; files that could be copied still are.
func (b *Bundle) Finalize() (*Manifest, error) {
	manifest := &Manifest{CopySpecs: b.copySpecs}
	var errs []error

	for _, spec := range b.copySpecs {
		matches, err := filepath.Glob(spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("glob %s: %w", spec, err))
			continue
		}
		for _, src := range matches {
			info, err := os.Stat(src)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			dst := filepath.Join(b.dir, copyDir, filepath.Base(src))
			if err := copyFile(src, dst); err != nil {
				errs = append(errs, err)
				continue
			}
			manifest.Copied = append(manifest.Copied, filepath.Join(copyDir, filepath.Base(src)))
		}
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return manifest, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.dir, ManifestName), data, 0o644); err != nil {
		errs = append(errs, fmt.Errorf("write manifest: %w", err))
	}
	return manifest, errors.Join(errs...)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
