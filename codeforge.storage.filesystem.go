package codeforge

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FilesystemStore keeps each source as a plain file under a root directory.
// Source names are slash-separated paths relative to the root:
//
//	<root>/
//	  entity.cft
//	  includes/
//	    header.cft
//
// The files are the template documents themselves, so a FilesystemStore root
// can be edited by hand and loaded with LoadDescriptor as well.
type FilesystemStore struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

type filesystemStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverFilesystem, filesystemStoreDriver{})
}

// Open uses the connection string as the root directory.
func (filesystemStoreDriver) Open(connectionString string) (SourceStore, error) {
	return NewFilesystemStore(connectionString)
}

// NewFilesystemStore creates a store rooted at root, creating the directory
// if it does not exist.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, NewStoreError(ErrMsgInvalidStoreRoot, "", nil)
	}
	if err := os.MkdirAll(root, OutputDirPermissions); err != nil {
		return nil, NewStoreError(ErrMsgCreateStoreDir, root, err)
	}
	return &FilesystemStore{root: root}, nil
}

// Root returns the store's root directory.
func (s *FilesystemStore) Root() string {
	return s.root
}

// path maps a source name to its file, rejecting names that would leave the
// root.
func (s *FilesystemStore) path(name string) (string, error) {
	if name == "" {
		return "", NewStoreError(ErrMsgEmptySourceName, name, nil)
	}
	if strings.ContainsAny(name, "\\:*?\"<>|") {
		return "", NewStoreError(ErrMsgInvalidSourceName, name, nil)
	}
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", NewStoreError(ErrMsgInvalidSourceName, name, nil)
	}
	return filepath.Join(s.root, rel), nil
}

func (s *FilesystemStore) Get(ctx context.Context, name string) (*StoredSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, NewSourceNotFoundError(name)
	}
	if err != nil {
		return nil, NewStoreError(ErrMsgReadSource, name, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewStoreError(ErrMsgReadSource, name, err)
	}
	return &StoredSource{
		Name:      name,
		Content:   string(data),
		UpdatedAt: info.ModTime(),
	}, nil
}

func (s *FilesystemStore) Save(ctx context.Context, src *StoredSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSource(src); err != nil {
		return err
	}
	path, err := s.path(src.Name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	if err := os.MkdirAll(filepath.Dir(path), OutputDirPermissions); err != nil {
		return NewStoreError(ErrMsgCreateStoreDir, src.Name, err)
	}
	if err := os.WriteFile(path, []byte(src.Content), OutputFilePermissions); err != nil {
		return NewStoreError(ErrMsgWriteSource, src.Name, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return NewStoreError(ErrMsgWriteSource, src.Name, err)
	}
	src.UpdatedAt = info.ModTime()
	return nil
}

func (s *FilesystemStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return NewSourceNotFoundError(name)
	}
	if err := os.Remove(path); err != nil {
		return NewStoreError(ErrMsgDeleteSource, name, err)
	}
	return nil
}

func (s *FilesystemStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := s.path(name)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStoreClosedError()
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, NewStoreError(ErrMsgReadSource, name, err)
	}
	return !info.IsDir(), nil
}

func (s *FilesystemStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if name := filepath.ToSlash(rel); strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, NewStoreError(ErrMsgReadStoreDir, s.root, err)
	}

	sort.Strings(names)
	return names, nil
}

func (s *FilesystemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
