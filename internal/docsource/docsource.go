// Package docsource loads documentation-comment XML files
// (<doc><members><member name="T:...">) and looks up the comment block of
// an entity by its documentation identifier.
package docsource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// Ext is the extension of the documentation file next to a library.
const Ext = ".xml"

// Source maps documentation identifiers to parsed <member> blocks. The
// zero value is an empty source for which every lookup is absent.
type Source struct {
	members map[string]*etree.Element
}

// Lookup returns the <member> element documenting id.
func (s *Source) Lookup(id string) (*etree.Element, bool) {
	if s == nil || s.members == nil {
		return nil, false
	}
	el, ok := s.members[id]
	return el, ok
}

// Len returns the number of documented entities.
func (s *Source) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// PathFor returns the documentation file path for a library path: same
// directory, same base name, Ext extension.
func PathFor(libraryPath string) string {
	base := strings.TrimSuffix(filepath.Base(libraryPath), filepath.Ext(libraryPath))
	return filepath.Join(filepath.Dir(libraryPath), base+Ext)
}

// Load reads the documentation file at path. A missing file is not an
// error: it yields an empty source and found == false.
func Load(path string) (src *Source, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Source{}, false, nil
		}
		return nil, false, err
	}
	defer f.Close()
	src, err = Read(f)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return src, true, nil
}

// Read parses a documentation file from r.
func Read(r io.Reader) (*Source, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse documentation xml: %w", err)
	}
	src := &Source{members: make(map[string]*etree.Element)}
	for _, el := range doc.FindElements("/doc/members/member") {
		if name := el.SelectAttrValue("name", ""); name != "" {
			src.members[name] = el
		}
	}
	return src, nil
}
