// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
	"github.com/NVIDIA/pkg-analyzer/pkg/serializer"
)

const (
	// TimestampLayout formats the timestamp part of report file names.
	TimestampLayout = "20060102_150405"

	filePrefix = "packages_"
	fileExt    = ".json"

	// maxSuffix bounds the collision search.
	maxSuffix = 1000
)

// Store reads and writes report files in Dir.
type Store struct {
	Dir string
	// Clock names new files. If nil, time.Now is used.
	Clock func() time.Time
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Save writes rep as indented JSON and returns the path written.
func (s *Store) Save(ctx context.Context, rep *report.Report) (string, error) {
	if rep == nil {
		return "", errors.New(errors.ErrCodeInvalidRequest, "report is nil")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to create output directory", err,
			map[string]any{"dir": s.Dir})
	}

	path, err := WriteExclusive(s.Dir, filePrefix+s.now().Format(TimestampLayout), fileExt, func(w io.Writer) error {
		return serializer.NewWriter(serializer.FormatJSON, w).Serialize(ctx, rep)
	})
	if err != nil {
		return "", err
	}

	slog.Debug("report saved", "path", path)
	return path, nil
}

// WriteExclusive creates a new file like CreateExclusive and fills it with
// write. On any failure the partial file is removed so List never sees it.
func WriteExclusive(dir, base, ext string, write func(io.Writer) error) (string, error) {
	f, path, err := CreateExclusive(dir, base, ext)
	if err != nil {
		return "", err
	}

	if err := write(f); err != nil {
		f.Close()
		removePartial(path)
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to write file", err,
			map[string]any{"path": path})
	}
	if err := f.Close(); err != nil {
		removePartial(path)
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to close file", err,
			map[string]any{"path": path})
	}
	return path, nil
}

func removePartial(path string) {
	if err := os.Remove(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove partial file", "path", path, "error", err)
	}
}

// CreateExclusive creates <dir>/<base><ext>, or the first free
// <dir>/<base>_<n><ext>, with O_EXCL so an existing file is never replaced.
func CreateExclusive(dir, base, ext string) (*os.File, string, error) {
	for n := 0; n < maxSuffix; n++ {
		name := base + ext
		if n > 0 {
			name = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !stderrors.Is(err, fs.ErrExist) {
			return nil, "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to create file", err,
				map[string]any{"path": path})
		}
	}
	return nil, "", errors.NewWithContext(errors.ErrCodeInternal, "too many files with the same name",
		map[string]any{"dir": dir, "base": base})
}

// Latest returns the newest report file by modification time, using the
// file name as a tiebreak.
func (s *Store) Latest() (string, error) {
	paths, err := s.List()
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", errors.NewWithContext(errors.ErrCodeNotFound, "no reports found",
			map[string]any{"dir": s.Dir})
	}
	return paths[0], nil
}

// List returns report files newest first.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "reports directory does not exist", err,
				map[string]any{"dir": s.Dir})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to read reports directory", err,
			map[string]any{"dir": s.Dir})
	}

	type candidate struct {
		path    string
		name    string
		modTime time.Time
	}
	var found []candidate
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{
			path:    filepath.Join(s.Dir, name),
			name:    name,
			modTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].modTime.Equal(found[j].modTime) {
			return found[i].modTime.After(found[j].modTime)
		}
		return found[i].name > found[j].name
	})

	paths := make([]string, len(found))
	for i, c := range found {
		paths[i] = c.path
	}
	return paths, nil
}

// Load reads a report file.
func Load(path string) (*report.Report, error) {
	rep, err := serializer.FromFile[report.Report](path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "report not found", err,
				map[string]any{"path": path})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to read report", err,
			map[string]any{"path": path})
	}
	return rep, nil
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
