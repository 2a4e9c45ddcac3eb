package ast

import (
	"regexp"
	"strings"

	"github.com/d42/jedi/internal/perror"
	"github.com/d42/jedi/token"
)

var moduleNameRE = regexp.MustCompile(`([^/]*?)(/__init__)?(\.py|\.so)?$`)

// ErrorStatementEntry is one frame of a partially parsed import that was
// discarded mid-construct: a dotted name being accumulated, or the
// keyword (`import`/`from`) that introduced it.
type ErrorStatementEntry struct {
	Kind  string // "dotted_name", "import_name", or "import_from"
	Names []*Name
	Dots  int
}

// ErrorStatementStack records the state of an aborted import/from
// construct at the point recovery gave up on it, keyed by the position
// the cursor must fall within for it to be relevant. CheckErrorStatements
// (package parser) walks these to drive import completion (§4.6, §9).
type ErrorStatementStack struct {
	Start   token.Position
	End     token.Position
	Entries []ErrorStatementEntry
}

// Module is the root scope: it owns the entire parsed tree and the
// cross-referencing tables (used_names, global_vars) that only make
// sense module-wide.
type Module struct {
	ScopeBase

	Path       string
	LineOffset int

	GlobalVars []*Name
	UsedNames  map[string][]*Statement

	ErrorStatementStacks []*ErrorStatementStack

	UserPosition *token.Position
	UserScope    Scope
	UserStmt     Node

	warnings []perror.Warning
}

// NewModule constructs an empty root scope. LineOffset defaults to 0;
// callers needing a nonzero offset (a module representing a slice of a
// larger file) should set it immediately, before any node is created
// against this Module, since Start/End read it on every call.
func NewModule(path string) *Module {
	m := &Module{UsedNames: map[string][]*Statement{}}
	m.ScopeBase = newScopeBase(nil, nil, token.Position{}, token.Position{})
	m.module = m
	m.Path = path
	return m
}

func (m *Module) Kind() Kind { return KindModule }

// IsBuiltin reports whether this module has no path, or a path not
// ending in ".py" (a compiled/native extension module).
func (m *Module) IsBuiltin() bool {
	return m.Path == "" || !strings.HasSuffix(m.Path, ".py")
}

// Name derives the module's importable name from its path's basename,
// stripping a trailing "/__init__" and ".py"/".so" suffix.
func (m *Module) Name() string {
	base := m.Path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 && !strings.HasSuffix(base, "/__init__.py") && !strings.HasSuffix(base, "/__init__.so") {
		base = base[idx+1:]
	}
	match := moduleNameRE.FindStringSubmatch(m.Path)
	if match == nil {
		return base
	}
	return match[1]
}

// AddGlobal registers name as introduced by a `global` statement.
func (m *Module) AddGlobal(name *Name) {
	m.GlobalVars = append(m.GlobalVars, name)
}

// RecordUse registers stmt as referencing text, for used_names (§3's
// invariant that used_names[text] is exactly the statements whose
// token list has a NamePart with that text).
func (m *Module) RecordUse(text string, stmt *Statement) {
	for _, s := range m.UsedNames[text] {
		if s == stmt {
			return
		}
	}
	m.UsedNames[text] = append(m.UsedNames[text], stmt)
}

// AddErrorStatementStack records a discarded import/from construct so
// CheckErrorStatements can later recover enough of it to drive
// completion.
func (m *Module) AddErrorStatementStack(start, end token.Position, entries []ErrorStatementEntry) {
	m.ErrorStatementStacks = append(m.ErrorStatementStacks, &ErrorStatementStack{
		Start: start, End: end, Entries: entries,
	})
}

// Warn records a non-fatal parse anomaly. The parser never raises these
// to its caller (§7); Warnings() exposes them after parsing completes.
func (m *Module) Warn(w perror.Warning) {
	m.warnings = append(m.warnings, w)
}

// Warnings returns every anomaly recorded while parsing, in the order
// they were logged.
func (m *Module) Warnings() []perror.Warning {
	return m.warnings
}
