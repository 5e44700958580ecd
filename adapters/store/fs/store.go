package storefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-docgen/docgen"
)

const metaSuffix = ".meta.json"

// Store keeps generated documents in a directory until they expire.
type Store struct {
	Root string
	Now  func() time.Time
}

var _ docgen.ArtifactStore = (*Store)(nil)

// NewStore creates a filesystem-backed document store.
func NewStore(root string) *Store {
	return &Store{Root: root, Now: time.Now}
}

// Put writes a document atomically next to a JSON sidecar holding its
// metadata.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, meta docgen.ArtifactMeta) (docgen.ArtifactRef, error) {
	_ = ctx
	target, err := s.target(key)
	if err != nil {
		return docgen.ArtifactRef{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return docgen.ArtifactRef{}, docgen.NewError(docgen.KindInternal, "create document directory", err)
	}

	size, err := writeAtomic(target, ".document-*", func(w io.Writer) (int64, error) {
		return io.Copy(w, r)
	})
	if err != nil {
		return docgen.ArtifactRef{}, docgen.NewError(docgen.KindInternal, fmt.Sprintf("write document %q", key), err)
	}

	meta.Size = size
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(target))
	}
	if meta.Filename == "" {
		meta.Filename = filepath.Base(target)
	}
	payload, err := json.Marshal(meta)
	if err != nil {
		return docgen.ArtifactRef{}, docgen.NewError(docgen.KindInternal, "encode document metadata", err)
	}
	if _, err := writeAtomic(target+metaSuffix, ".meta-*", func(w io.Writer) (int64, error) {
		n, err := w.Write(payload)
		return int64(n), err
	}); err != nil {
		return docgen.ArtifactRef{}, docgen.NewError(docgen.KindInternal, "write document metadata", err)
	}

	return docgen.ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads a document. Missing sidecars are tolerated: metadata then
// falls back to the file's extension and stat info.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, docgen.ArtifactMeta, error) {
	_ = ctx
	target, err := s.target(key)
	if err != nil {
		return nil, docgen.ArtifactMeta{}, err
	}

	file, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docgen.ArtifactMeta{}, docgen.NewError(docgen.KindNotFound, fmt.Sprintf("document %q not found", key), err)
		}
		return nil, docgen.ArtifactMeta{}, docgen.NewError(docgen.KindInternal, fmt.Sprintf("open document %q", key), err)
	}

	meta := readMeta(target)
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(target))
	}
	if meta.Filename == "" {
		meta.Filename = filepath.Base(target)
	}
	if meta.Size == 0 || meta.CreatedAt.IsZero() {
		if info, err := file.Stat(); err == nil {
			meta.Size = info.Size()
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = info.ModTime()
			}
		}
	}
	return file, meta, nil
}

// Delete removes a document and its sidecar. Missing files are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	_ = ctx
	target, err := s.target(key)
	if err != nil {
		return err
	}
	_ = os.Remove(target)
	_ = os.Remove(target + metaSuffix)
	return nil
}

// Sweep deletes every document created before the cutoff and returns how
// many were removed. A missing root is an empty store.
func (s *Store) Sweep(ctx context.Context, before time.Time) (int, error) {
	if s == nil || s.Root == "" {
		return 0, docgen.NewError(docgen.KindValidation, "store root is required", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return 0, docgen.NewError(docgen.KindInternal, "resolve store root", err)
	}

	removed := 0
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, metaSuffix) || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		created := readMeta(p).CreatedAt
		if created.IsZero() {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			created = info.ModTime()
		}
		if !created.Before(before) {
			return nil
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
		_ = os.Remove(p + metaSuffix)
		removed++
		return nil
	})
	if err != nil {
		return removed, docgen.NewError(docgen.KindFromError(err), "sweep expired documents", err)
	}
	return removed, nil
}

// target resolves key below Root, rejecting keys that would escape it.
func (s *Store) target(key string) (string, error) {
	if s == nil {
		return "", docgen.NewError(docgen.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return "", docgen.NewError(docgen.KindValidation, "store root is required", nil)
	}
	if key == "" {
		return "", docgen.NewError(docgen.KindValidation, "document key is required", nil)
	}
	rel := strings.TrimPrefix(path.Clean("/"+key), "/")
	if rel == "" || rel == "." || strings.HasSuffix(rel, metaSuffix) {
		return "", docgen.NewError(docgen.KindValidation, "invalid document key", nil)
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", docgen.NewError(docgen.KindInternal, "resolve store root", err)
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", docgen.NewError(docgen.KindValidation, "document key escapes root", nil)
	}
	return target, nil
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func writeAtomic(target, pattern string, write func(w io.Writer) (int64, error)) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), pattern)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	n, err := write(tmp)
	if err != nil {
		return n, err
	}
	if err := tmp.Sync(); err != nil {
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}
	return n, os.Rename(tmp.Name(), target)
}

func readMeta(target string) docgen.ArtifactMeta {
	data, err := os.ReadFile(target + metaSuffix)
	if err != nil {
		return docgen.ArtifactMeta{}
	}
	var meta docgen.ArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return docgen.ArtifactMeta{}
	}
	return meta
}
