// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vfs

import (
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ricsam/shelldsl/pattern"
)

// MemFS is an in-memory FS, the default adapter for tests and for hosts
// that want a fully sandboxed tree with no real OS access whatsoever.
// DevNull ("/dev/null") is handled specially by ReadFile, WriteFile,
// AppendFile, Stat and Exists, per the reserved-path contract: reads
// return empty, writes discard. ReadDir, Mkdir, Rm and Glob treat it as an
// ordinary path.
type MemFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemFS returns an empty tree with just the root directory present.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true},
	}
}

const DevNull = "/dev/null"

func clean(p string) string {
	if !path.IsAbs(p) {
		p = "/" + p
	}
	return path.Clean(p)
}

func (m *MemFS) ReadFile(p string) ([]byte, error) {
	p = clean(p)
	if p == DevNull {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.files[p]
	if !ok {
		if m.dirs[p] {
			return nil, NewError("read", p, KindNotDirectory, nil)
		}
		return nil, NewError("read", p, KindNotFound, nil)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *MemFS) WriteFile(p string, data []byte) error {
	p = clean(p)
	if p == DevNull {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dir := DirnamePath(p)
	if dir != "/" && !m.dirs[dir] {
		return NewError("write", p, KindNotFound, nil)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[p] = cp
	return nil
}

func (m *MemFS) AppendFile(p string, data []byte) error {
	p = clean(p)
	if p == DevNull {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dir := DirnamePath(p)
	if dir != "/" && !m.dirs[dir] {
		return NewError("write", p, KindNotFound, nil)
	}
	m.files[p] = append(m.files[p], data...)
	return nil
}

func (m *MemFS) ReadDir(p string) ([]string, error) {
	p = clean(p)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.dirs[p] {
		if _, ok := m.files[p]; ok {
			return nil, NewError("readdir", p, KindNotDirectory, nil)
		}
		return nil, NewError("readdir", p, KindNotFound, nil)
	}
	seen := map[string]bool{}
	var names []string
	prefix := p
	if prefix != "/" {
		prefix += "/"
	}
	collect := func(full string) {
		rest := strings.TrimPrefix(full, prefix)
		if rest == "" || rest == full {
			return
		}
		name, _, _ := strings.Cut(rest, "/")
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			collect(f)
		}
	}
	for d := range m.dirs {
		if d != p && strings.HasPrefix(d, prefix) {
			collect(d)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemFS) Stat(p string) (FileInfo, error) {
	p = clean(p)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p == DevNull {
		return FileInfo{IsFile: true, ModTime: time.Time{}}, nil
	}
	if m.dirs[p] {
		return FileInfo{IsDirectory: true}, nil
	}
	if b, ok := m.files[p]; ok {
		return FileInfo{IsFile: true, Size: int64(len(b))}, nil
	}
	return FileInfo{}, NewError("stat", p, KindNotFound, nil)
}

func (m *MemFS) Exists(p string) bool {
	p = clean(p)
	if p == DevNull {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, f := m.files[p]
	return f || m.dirs[p]
}

func (m *MemFS) Mkdir(p string, opts MkdirOptions) error {
	p = clean(p)
	m.mu.Lock()
	defer m.mu.Unlock()
	parent := DirnamePath(p)
	if !opts.Recursive && parent != "/" && !m.dirs[parent] {
		return NewError("mkdir", p, KindNotFound, nil)
	}
	if !opts.Recursive {
		if m.dirs[p] {
			return NewError("mkdir", p, KindAlreadyExists, nil)
		}
		m.dirs[p] = true
		return nil
	}
	cur := ""
	for _, seg := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if seg == "" {
			continue
		}
		cur += "/" + seg
		m.dirs[cur] = true
	}
	if p == "/" {
		m.dirs["/"] = true
	}
	return nil
}

func (m *MemFS) Rm(p string, opts RemoveOptions) error {
	p = clean(p)
	m.mu.Lock()
	defer m.mu.Unlock()
	_, isFile := m.files[p]
	isDir := m.dirs[p]
	if !isFile && !isDir {
		if opts.Force {
			return nil
		}
		return NewError("rm", p, KindNotFound, nil)
	}
	if isFile {
		delete(m.files, p)
		return nil
	}
	prefix := p + "/"
	hasChildren := false
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			hasChildren = true
			break
		}
	}
	if !hasChildren {
		for d := range m.dirs {
			if d != p && strings.HasPrefix(d, prefix) {
				hasChildren = true
				break
			}
		}
	}
	if hasChildren && !opts.Recursive {
		return NewError("rm", p, KindOther, nil)
	}
	for f := range m.files {
		if f == p || strings.HasPrefix(f, prefix) {
			delete(m.files, f)
		}
	}
	for d := range m.dirs {
		if d == p || strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return nil
}

func (m *MemFS) Resolve(base string, segments ...string) string {
	return ResolvePath(base, segments...)
}

func (m *MemFS) Dirname(p string) string  { return DirnamePath(p) }
func (m *MemFS) Basename(p string) string { return BasenamePath(p) }

// Glob matches pattern (already brace-expanded upstream by the expansion
// engine) against every path present in the tree, rooted at cwd, with
// "**" matching any number of path segments.
func (m *MemFS) Glob(cwd, pat string) ([]string, error) {
	abs := pat
	if !path.IsAbs(pat) {
		abs = ResolvePath(cwd, pat)
	}
	expr, err := pattern.Regexp(abs, pattern.Filenames|pattern.EntireString)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for f := range m.files {
		if re.MatchString(f) {
			out = append(out, f)
		}
	}
	for d := range m.dirs {
		if d != "/" && re.MatchString(d) {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out, nil
}
