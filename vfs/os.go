// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vfs

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/google/renameio/v2/maybe"
	"github.com/ricsam/shelldsl/pattern"
)

// OS is a real-filesystem adapter, rooted at Root (an absolute host path).
// Every vfs path is translated to Root-joined before touching disk, so a
// script's "/etc/passwd" only ever reaches the host's Root+"/etc/passwd".
// WriteFile goes through maybe.WriteFile, which renames into place
// atomically when the destination is a regular file and falls back to a
// direct write for special files (devices, pipes) — the same helper
// shfmt-style CLIs use so a crash mid-write never leaves a truncated file
// behind. AppendFile opens the host file with O_APPEND and writes in place.
type OS struct {
	Root string
	Perm os.FileMode
}

// NewOS returns an adapter rooted at root, creating it if necessary.
func NewOS(root string) (*OS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &OS{Root: root, Perm: 0o644}, nil
}

func (o *OS) host(p string) string {
	p = clean(p)
	if p == DevNull {
		return os.DevNull
	}
	return filepath.Join(o.Root, filepath.FromSlash(p))
}

func wrapErr(op, p string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case os.IsNotExist(err):
		return NewError(op, p, KindNotFound, err)
	case os.IsPermission(err):
		return NewError(op, p, KindPermission, err)
	case os.IsExist(err):
		return NewError(op, p, KindAlreadyExists, err)
	default:
		return NewError(op, p, KindOther, err)
	}
}

func (o *OS) ReadFile(p string) ([]byte, error) {
	b, err := os.ReadFile(o.host(p))
	if err != nil {
		return nil, wrapErr("read", p, err)
	}
	return b, nil
}

func (o *OS) WriteFile(p string, data []byte) error {
	if clean(p) == DevNull {
		return nil
	}
	if err := maybe.WriteFile(o.host(p), data, o.Perm); err != nil {
		return wrapErr("write", p, err)
	}
	return nil
}

func (o *OS) AppendFile(p string, data []byte) error {
	if clean(p) == DevNull {
		return nil
	}
	f, err := os.OpenFile(o.host(p), os.O_CREATE|os.O_WRONLY|os.O_APPEND, o.Perm)
	if err != nil {
		return wrapErr("write", p, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return wrapErr("write", p, err)
	}
	return nil
}

func (o *OS) ReadDir(p string) ([]string, error) {
	entries, err := os.ReadDir(o.host(p))
	if err != nil {
		return nil, wrapErr("readdir", p, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func (o *OS) Stat(p string) (FileInfo, error) {
	fi, err := os.Stat(o.host(p))
	if err != nil {
		return FileInfo{}, wrapErr("stat", p, err)
	}
	return FileInfo{
		IsFile:      fi.Mode().IsRegular(),
		IsDirectory: fi.IsDir(),
		Size:        fi.Size(),
		ModTime:     fi.ModTime(),
	}, nil
}

func (o *OS) Exists(p string) bool {
	_, err := os.Stat(o.host(p))
	return err == nil
}

func (o *OS) Mkdir(p string, opts MkdirOptions) error {
	var err error
	if opts.Recursive {
		err = os.MkdirAll(o.host(p), 0o755)
	} else {
		err = os.Mkdir(o.host(p), 0o755)
	}
	if err != nil {
		return wrapErr("mkdir", p, err)
	}
	return nil
}

func (o *OS) Rm(p string, opts RemoveOptions) error {
	var err error
	if opts.Recursive {
		err = os.RemoveAll(o.host(p))
	} else {
		err = os.Remove(o.host(p))
	}
	if err != nil {
		if opts.Force && os.IsNotExist(err) {
			return nil
		}
		return wrapErr("rm", p, err)
	}
	return nil
}

func (o *OS) Resolve(base string, segments ...string) string {
	return ResolvePath(base, segments...)
}

func (o *OS) Dirname(p string) string  { return DirnamePath(p) }
func (o *OS) Basename(p string) string { return BasenamePath(p) }

func (o *OS) Glob(cwd, pat string) ([]string, error) {
	abs := pat
	if !path.IsAbs(pat) {
		abs = ResolvePath(cwd, pat)
	}
	var out []string
	err := filepath.WalkDir(o.Root, func(hostPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(o.Root, hostPath)
		if err != nil {
			return nil
		}
		vp := "/" + filepath.ToSlash(rel)
		if vp == "/." {
			vp = "/"
		}
		ok, matchErr := matchGlob(abs, vp)
		if matchErr != nil {
			return matchErr
		}
		if ok {
			out = append(out, vp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func matchGlob(pat, target string) (bool, error) {
	expr, err := pattern.Regexp(pat, pattern.Filenames|pattern.EntireString)
	if err != nil {
		return false, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false, err
	}
	return re.MatchString(target), nil
}
