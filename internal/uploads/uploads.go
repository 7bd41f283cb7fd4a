// Package uploads stores payment evidence files under generated names.
//
// Accepted files land in a single flat directory. Each stored name is the
// sanitized original filename prefixed with a UTC timestamp of microsecond
// resolution (YYYYMMDDHHMMSSffffff_), so two uploads with the same original
// name never collide.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrUnsupportedFileType is returned for files whose extension is not
	// in the allow-list. Nothing is written.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrInvalidName is returned when a stored name contains path elements.
	ErrInvalidName = errors.New("invalid upload name")
)

// MsgUnsupportedFileType is the user-facing notice for ErrUnsupportedFileType.
const MsgUnsupportedFileType = "Formato de archivo no permitido. Usa png, jpg, jpeg, gif o pdf."

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"pdf":  true,
}

// maxNameAttempts bounds the collision retries in Save.
const maxNameAttempts = 100

// Upload is a candidate file submitted with a form.
type Upload struct {
	// Filename is the client-supplied name. Empty means no file.
	Filename string

	Content io.Reader

	// Size is the size declared by the client, in bytes.
	Size int64
}

// Empty reports whether u carries no file.
func (u *Upload) Empty() bool {
	return u == nil || u.Filename == ""
}

// Store writes and removes evidence files in Dir.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		now: time.Now,
	}
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and writes an upload, returning its stored name.
// An empty upload is not an error: it yields "".
func (s *Store) Save(u *Upload) (string, error) {
	if u.Empty() {
		return "", nil
	}

	ext, ok := AllowedExtension(u.Filename)
	if !ok {
		return "", fmt.Errorf("%q: %w", u.Filename, ErrUnsupportedFileType)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	base := storedBase(u.Filename, ext)
	stamp := s.now().UTC()

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := timestampPrefix(stamp) + base
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			stamp = stamp.Add(time.Microsecond)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create upload file: %w", err)
		}

		if _, err := io.Copy(f, u.Content); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("failed to write upload file: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("failed to close upload file: %w", err)
		}

		return name, nil
	}

	return "", fmt.Errorf("failed to allocate a unique name for %q", base)
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

// Path resolves a stored name to its location on disk.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsRune(name, '\\') {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return filepath.Join(s.dir, name), nil
}

// AllowedExtension returns the lowercased extension of filename and whether
// it is in the allow-list. A name without a dot has no extension.
func AllowedExtension(filename string) (string, bool) {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return "", false
	}
	ext := strings.ToLower(filename[i+1:])
	return ext, allowedExtensions[ext]
}

// SanitizeFilename reduces a client-supplied name to a safe ASCII file
// name: Unicode is decomposed and non-ASCII dropped, path separators and
// whitespace become underscores, anything outside [A-Za-z0-9_.-] is removed
// and leading or trailing dots and underscores are trimmed. The result may
// be empty.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		switch {
		case r > unicode.MaxASCII:
			// dropped
		case r == '/' || r == '\\':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	joined := strings.Join(strings.Fields(b.String()), "_")

	b.Reset()
	for _, r := range joined {
		if r == '_' || r == '.' || r == '-' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "._")
}

// storedBase is the sanitized name with a lowercase ext. When sanitizing
// destroys the stem or the extension, "upload" stands in for the stem.
func storedBase(filename, ext string) string {
	clean := SanitizeFilename(filename)

	stem := ""
	if i := strings.LastIndexByte(clean, '.'); i >= 0 && strings.EqualFold(clean[i+1:], ext) {
		stem = strings.TrimRight(clean[:i], ".")
	}
	if stem == "" {
		stem = "upload"
	}

	return stem + "." + ext
}

// timestampPrefix formats t as YYYYMMDDHHMMSSffffff_.
func timestampPrefix(t time.Time) string {
	return fmt.Sprintf("%s%06d_", t.Format("20060102150405"), t.Nanosecond()/int(time.Microsecond))
}
