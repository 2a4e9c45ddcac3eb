package parser

import (
	"github.com/d42/jedi/ast"
	"github.com/d42/jedi/token"
)

// NameAt returns the Name node of module's tree containing pos, or nil.
func NameAt(module *ast.Module, pos token.Position) *ast.Name {
	return module.NameAt(pos)
}

// StatementForPosition returns the innermost statement or assert (or,
// with includeImports, Import) of module's tree containing pos, or nil.
// A Function's Params, Decorators and Returns are not searched.
func StatementForPosition(module *ast.Module, pos token.Position, includeImports bool) ast.Node {
	return module.StatementForPosition(pos, includeImports)
}

// CheckErrorStatements inspects module's recorded ErrorStatementStacks
// (discarded import/from constructs, §4.7) for one whose range contains
// pos, and reports what recovery can still offer a completion for: the
// names already typed, how many dotted segments deep the cursor sits,
// whether every frame so far was a module-name segment (as opposed to a
// bound identifier after `import`), and whether the last segment was
// left mid-dot (`import a.<cursor>` vs `import a<cursor>`).
func CheckErrorStatements(module *ast.Module, pos token.Position) (names []*ast.Name, level int, onlyModules, unfinishedDotted bool) {
	for _, stack := range module.ErrorStatementStacks {
		if pos.Before(stack.Start) || stack.End.Before(pos) {
			continue
		}
		onlyModules = true
		for _, entry := range stack.Entries {
			names = append(names, entry.Names...)
			level += entry.Dots
			if len(entry.Names) > 0 {
				level += len(entry.Names)
			} else {
				level++
			}
			if entry.Kind != "dotted_name" && entry.Kind != "import_from" {
				onlyModules = false
			}
			if entry.Kind == "dotted_name" {
				unfinishedDotted = true
			}
		}
		return names, level, onlyModules, unfinishedDotted
	}
	return nil, 0, false, false
}
