// Package archive discovers .class files under target/classpath roots,
// whether laid out as plain directories or bundled inside .jar
// containers, and gives each one a stable ArtifactURI for reporting.
//
// Grounded in the directory-walking shape of
// _examples/bisibesi-spec-recon/internal/analyzer/file_reader.go's
// ScanDirectory (filepath.WalkDir with directory skip rules), extended
// here to also open jars via the standard archive/zip reader. zip is
// one of the rare stdlib-only choices in this module: none of the
// teacher or pack repos carry a third-party zip/jar reader, and
// archive/zip already implements the exact container format a .jar
// uses, so reimplementing it for its own sake would not add a real
// ecosystem dependency, just bytes.
package archive

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Origin identifies which root an artifact was discovered under.
type Origin int

const (
	// Target marks a class discovered under the analysis target root.
	Target Origin = iota
	// Classpath marks a class discovered under a supplementary
	// classpath root: reference-only context (library-presence probes,
	// class lookups), never the subject of a finding.
	Classpath
)

// Artifact is one discovered .class file, either loose on disk or
// inside a .jar, tagged with the root it came from.
type Artifact struct {
	URI    ArtifactURI
	Origin Origin
	read   func() ([]byte, error)
}

// Bytes reads the artifact's raw .class content.
func (a Artifact) Bytes() ([]byte, error) {
	return a.read()
}

// ArtifactURI identifies the physical location of a .class file for
// reporting, per SPEC_FULL.md's container-URI scheme: a loose file is
// "file://<absolute-path>"; a jar entry is "jar:file://<jar-path>!/<entry-path>".
type ArtifactURI string

const fileURIPrefix = "file://"

// NewFileURI builds the URI for a loose .class file on disk.
func NewFileURI(path string) ArtifactURI {
	return ArtifactURI(fileURIPrefix + filepath.ToSlash(path))
}

// NewJarEntryURI builds the URI for an entry inside a jar container.
func NewJarEntryURI(jarPath, entry string) ArtifactURI {
	return ArtifactURI(fmt.Sprintf("jar:%s%s!/%s", fileURIPrefix, filepath.ToSlash(jarPath), entry))
}

// Decode splits a jar-entry URI back into its jar path and entry path.
// ok is false for plain file URIs (no "jar:" prefix). The returned
// jarPath has the "file://" scheme prefix stripped.
func (u ArtifactURI) Decode() (jarPath, entry string, ok bool) {
	s := string(u)
	if !strings.HasPrefix(s, "jar:") {
		return "", "", false
	}
	rest := strings.TrimPrefix(s, "jar:")
	rest = strings.TrimPrefix(rest, fileURIPrefix)
	idx := strings.Index(rest, "!/")
	if idx < 0 {
		return "", "", false
	}
	return rest[:idx], rest[idx+2:], true
}

// Discover walks root (a directory or a single .jar file) and returns
// every .class artifact found, tagged with origin. Directories
// matching any of excludePatterns (matched against the path relative
// to root, forward-slashed) are skipped entirely, mirroring the
// teacher's ScanDirectory exclusion behavior.
func Discover(root string, origin Origin, excludePatterns []string) ([]Artifact, error) {
	if strings.HasSuffix(strings.ToLower(root), ".jar") {
		return discoverJar(root, origin)
	}
	return discoverDir(root, origin, excludePatterns)
}

func discoverDir(root string, origin Origin, excludePatterns []string) ([]Artifact, error) {
	var artifacts []Artifact

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".svn" {
				return filepath.SkipDir
			}
			relPath, _ := filepath.Rel(root, path)
			relPath = filepath.ToSlash(relPath)
			for _, pat := range excludePatterns {
				if matchExclude(relPath, pat) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		lower := strings.ToLower(path)
		switch {
		case strings.HasSuffix(lower, ".class"):
			p := path
			artifacts = append(artifacts, Artifact{
				URI:    NewFileURI(p),
				Origin: origin,
				read:   func() ([]byte, error) { return readFile(p) },
			})
		case strings.HasSuffix(lower, ".jar"):
			nested, err := discoverJar(path, origin)
			if err != nil {
				return err
			}
			artifacts = append(artifacts, nested...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return artifacts, nil
}

func discoverJar(jarPath string, origin Origin) ([]Artifact, error) {
	zr, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, fmt.Errorf("open jar %s: %w", jarPath, err)
	}
	defer zr.Close()

	var artifacts []Artifact
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".class") {
			continue
		}
		entry := f.Name
		artifacts = append(artifacts, Artifact{
			URI:    NewJarEntryURI(jarPath, entry),
			Origin: origin,
			read: func() ([]byte, error) {
				return readZipEntry(jarPath, entry)
			},
		})
	}
	return artifacts, nil
}

// readZipEntry reopens the jar to read a single entry. Artifacts are
// typically read once each during IR loading, so paying the reopen
// cost per-entry keeps Artifact values cheap to hold in memory
// without pinning an open *zip.ReadCloser per jar for the process
// lifetime.
func readZipEntry(jarPath, entry string) ([]byte, error) {
	zr, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return readAll(rc)
	}
	return nil, fmt.Errorf("entry %s not found in %s", entry, jarPath)
}

func matchExclude(path, pattern string) bool {
	if strings.Contains(pattern, "**") {
		clean := strings.ReplaceAll(pattern, "**", "")
		clean = strings.Trim(clean, "/")
		if clean != "" && strings.Contains(path, clean) {
			return true
		}
		return false
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}
