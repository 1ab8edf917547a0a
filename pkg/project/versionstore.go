// Package project implements the project loader of spec §4.10: given a
// project descriptor and a version token, it resolves the sheet graph
// rooted at that descriptor's root schematic into an ordered mapping of
// file path to (instance list, parsed page), plus a hierarchical table
// of contents.
//
// Grounded on original_source/kischvidimer/kicad_pro.py: get_pages'
// queue-driven BFS, gen_toc's sorted hierarchy builder, and the
// "open(path, version) -> bytes" abstraction spec §6 names as the
// "Version store" (kischvidimer's git.open_rb, generalized here to any
// backing store since source-control plumbing is an explicit non-goal).
package project

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// VersionStore abstracts "open this file as it existed at this version
// token" (spec §6 "Version store"). The core never embeds a
// source-control protocol; it only calls Open.
type VersionStore interface {
	Open(path, version string) (io.Reader, error)
}

// FileStore is a trivial VersionStore over the local filesystem: it has
// no notion of historical versions (git plumbing is a non-goal), so any
// non-empty version token is rejected rather than silently ignored.
type FileStore struct {
	Root string
}

// Open reads path (relative to Root) as it exists on disk right now.
func (f FileStore) Open(path, version string) (io.Reader, error) {
	if version != "" {
		return nil, fmt.Errorf("project: FileStore does not support historical versions (got %q for %s)", version, path)
	}
	full := path
	if f.Root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(f.Root, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}
	return newReader(data), nil
}

func newReader(b []byte) io.Reader { return &byteReader{b: b} }

// byteReader avoids pulling in bytes.Reader just to keep this file's
// import list tight; io.Reader is the only contract callers need.
type byteReader struct {
	b   []byte
	off int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.off >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.off:])
	r.off += n
	return n, nil
}

// MapStore is an in-memory VersionStore keyed by path, used by tests and
// by callers that already hold file contents (e.g. a UI that staged
// edits before any of them touch disk).
type MapStore map[string][]byte

// Open ignores version: MapStore has exactly one version of each path.
func (m MapStore) Open(path, version string) (io.Reader, error) {
	data, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("project: MapStore has no entry for %s", path)
	}
	return newReader(data), nil
}
