package extensions

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/vango-dev/vango-ext/pkg/component"
)

// MarkupExt and MetadataExt are the file extensions LoadMarkupDir reads.
const (
	MarkupExt   = ".xmlui"
	MetadataExt = ".yaml"
)

// LoadMarkupDir loads every markup component under fsys. Each Foo.xmlui
// file may have a Foo.yaml sibling holding its metadata; without one the
// component declares no props. Components are returned in lexical path
// order.
func LoadMarkupDir(fsys fs.FS) ([]*component.Registration, error) {
	var regs []*component.Registration
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != MarkupExt {
			return nil
		}
		reg, err := loadMarkupFile(fsys, p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		regs = append(regs, reg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func loadMarkupFile(fsys fs.FS, p string) (*component.Registration, error) {
	source, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}

	md, err := loadSiblingMetadata(fsys, strings.TrimSuffix(p, MarkupExt)+MetadataExt)
	if err != nil {
		return nil, err
	}
	return component.NewMarkupComponent(md, string(source))
}

func loadSiblingMetadata(fsys fs.FS, p string) (*component.Metadata, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return component.CreateMetadata(component.Record{})
		}
		return nil, err
	}
	md, err := component.ParseMetadataYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path.Base(p), err)
	}
	return md, nil
}

// LoadMarkupExtension loads the markup components under fsys into one
// namespace.
func LoadMarkupExtension(namespace string, fsys fs.FS) (*component.Extension, error) {
	regs, err := LoadMarkupDir(fsys)
	if err != nil {
		return nil, err
	}
	return component.NewExtension(namespace, regs...)
}
