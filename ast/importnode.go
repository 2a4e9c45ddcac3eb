package ast

import (
	"strings"

	"github.com/d42/jedi/token"
)

// Import is one `import x`, `import x as y`, or `from ns import x` entry.
// A broken import is still emitted, with Defunct set, so downstream
// partial completion can inspect it (§4.7).
type Import struct {
	Base
	Namespace     *Name
	Alias         *Name
	FromNs        *Name
	Star          bool
	RelativeCount int
	Defunct       bool
}

func NewImport(module *Module, parent Node, start, end token.Position) *Import {
	return &Import{Base: newBase(module, parent, start, end)}
}

func (im *Import) Kind() Kind { return KindImport }

func (im *Import) GetCode() string {
	var b strings.Builder
	if im.FromNs != nil || im.RelativeCount > 0 {
		b.WriteString("from ")
		b.WriteString(strings.Repeat(".", im.RelativeCount))
		if im.FromNs != nil {
			b.WriteString(im.FromNs.GetCode())
		}
		b.WriteString(" import ")
	} else {
		b.WriteString("import ")
	}
	switch {
	case im.Star:
		b.WriteString("*")
	case im.Namespace != nil:
		b.WriteString(im.Namespace.GetCode())
	}
	if im.Alias != nil {
		b.WriteString(" as ")
		b.WriteString(im.Alias.GetCode())
	}
	return b.String()
}

// GetDefinedNames returns the name this import introduces into its
// enclosing scope: the alias if present, otherwise the first dotted
// segment of the namespace (`import a.b.c` binds only `a`, not `a.b.c`).
func (im *Import) GetDefinedNames() []*Name {
	if im.Star || im.Defunct {
		return nil
	}
	if im.Alias != nil {
		return []*Name{im.Alias}
	}
	if im.Namespace != nil {
		if len(im.Namespace.Parts) > 1 {
			first := im.Namespace.Parts[0]
			return []*Name{NewName(im.module, im.Namespace.Parent(), []*NamePart{first}, first.Start(), first.End())}
		}
		return []*Name{im.Namespace}
	}
	return nil
}

// GetSetVars mirrors GetDefinedNames; imports bind names the same way a
// simple assignment would.
func (im *Import) GetSetVars() []*Name { return im.GetDefinedNames() }

// GetAllImportNames returns every Name referenced by this import:
// namespace, from_ns and alias, in source order.
func (im *Import) GetAllImportNames() []*Name {
	var names []*Name
	if im.FromNs != nil {
		names = append(names, im.FromNs)
	}
	if im.Namespace != nil {
		names = append(names, im.Namespace)
	}
	if im.Alias != nil {
		names = append(names, im.Alias)
	}
	return names
}

func (im *Import) nameAt(pos token.Position) *Name {
	for _, n := range im.GetAllImportNames() {
		if Contains(n, pos) {
			return n
		}
	}
	return nil
}
