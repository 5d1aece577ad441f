package licenses

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// maxLicenseSize bounds a single extracted file.
const maxLicenseSize = 8 << 20

// extractArchive unpacks the regular files of a .tar.gz archive into an
// in-memory filesystem rooted at "/".
func extractArchive(fsys afero.Fs, location string) (afero.Fs, error) {
	f, err := fsys.Open(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, location, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("licenses: open %s: %w", location, err)
	}
	defer zr.Close()

	out := afero.NewMemMapFs()
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("licenses: read %s: %w", location, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := path.Clean("/" + hdr.Name)
		if escapesRoot(hdr.Name) {
			return nil, fmt.Errorf("licenses: %s: unsafe entry %q", location, hdr.Name)
		}
		if hdr.Size > maxLicenseSize {
			return nil, fmt.Errorf("licenses: %s: entry %q is too large", location, hdr.Name)
		}

		if err := out.MkdirAll(path.Dir(name), 0755); err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(tr, maxLicenseSize))
		if err != nil {
			return nil, fmt.Errorf("licenses: read %s from %s: %w", hdr.Name, location, err)
		}
		if err := afero.WriteFile(out, name, data, 0644); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// escapesRoot reports whether an entry name has a ".." path element.
func escapesRoot(name string) bool {
	for _, part := range strings.Split(strings.ReplaceAll(name, "\\", "/"), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
