// Package fs stores fetched logos on the local filesystem.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/logofetch"
	"golang.org/x/net/publicsuffix"
)

// maxNameAttempts bounds the numeric suffixes tried for a taken file name.
const maxNameAttempts = 100

// SiteDir returns the directory name used for assets found on siteURL: the
// registrable domain (eTLD+1) when there is one, otherwise the bare host.
// Example: https://www.shop.example.co.uk/about → example.co.uk
func SiteDir(siteURL string) (string, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return "", logofetch.WrapError(logofetch.EINVALID, err, "invalid site URL")
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", logofetch.Errorf(logofetch.EINVALID, "site URL has no host: %q", siteURL)
	}
	if net.ParseIP(host) != nil {
		return strings.NewReplacer(":", "_").Replace(host), nil
	}
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain, nil
	}
	return host, nil
}

// SafeFileName reduces name to a single path element. Names that cannot be
// used on disk are replaced with a generated one based on the asset.
func SafeFileName(asset *logofetch.EnrichedAsset) string {
	name := strings.TrimSpace(asset.FileName)
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return fmt.Sprintf("logo-%d.%s", asset.ID, logofetch.ExtensionForMIME(asset.MIMEType))
	}
	return name
}

// Ensure Writer implements logofetch.AssetWriter at compile time.
var _ logofetch.AssetWriter = (*Writer)(nil)

// Writer writes decoded assets to baseDir/<site>/<fileName>.
// Writing the same bytes twice is a no-op; different bytes under a taken
// name get a numeric suffix.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes under baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteAsset decodes asset and writes it to disk, returning the path.
func (w *Writer) WriteAsset(ctx context.Context, siteURL string, asset *logofetch.EnrichedAsset) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := asset.Data()
	if err != nil {
		return "", err
	}

	site, err := SiteDir(siteURL)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(w.baseDir, site)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	name := SafeFileName(asset)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	sum := xxhash.Sum64(data)

	for i := 0; i < maxNameAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)

		existing, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return path, writeFileAtomic(path, data)
		case err != nil:
			return "", err
		case xxhash.Sum64(existing) == sum && len(existing) == len(data):
			return path, nil
		}
	}
	return "", logofetch.Errorf(logofetch.EINTERNAL, "no free file name for %s in %s", name, dir)
}

// writeFileAtomic writes data to a temporary file beside path and renames it
// into place so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".logofetch-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
