// Package clocknow provides a linter that reports direct time.Now() calls in
// packages that must read the current time from an injected clock.
//
// Calendar paging, default anchors and "today" all depend on the current date.
// Packages computing them take a func() time.Time so tests can pin the date;
// a stray time.Now() call makes their output depend on the day the tests run.
//
// Passing time.Now as a value (the default clock) is allowed:
//
//	c.now = time.Now          // Good: default clock
//	today := c.now()          // Good
//	today := time.Now()       // Bad
//
// The linter respects //nolint and //nolint:clocknow comments.
package clocknow

import (
	"go/ast"
	"path"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// DefaultPackages are the package names checked when -packages is not set.
const DefaultPackages = "calendar,bucket,filter,filterstate,navigator"

// Analyzer is the clocknow analyzer.
var Analyzer = &analysis.Analyzer{
	Name: "clocknow",
	Doc:  "reports time.Now() calls in packages that take the current time from an injected clock",
	Run:  run,
}

var packages string

func init() {
	Analyzer.Flags.StringVar(&packages, "packages", DefaultPackages,
		"comma-separated package names (last import path element) to check")
}

func run(pass *analysis.Pass) (any, error) {
	if !checked(pass.Pkg.Path()) {
		return nil, nil
	}

	for _, file := range pass.Files {
		if strings.HasSuffix(pass.Fset.Position(file.Pos()).Filename, "_test.go") {
			continue
		}
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || !isTimeNow(call) {
				return true
			}
			if hasNolintComment(pass, file, call) {
				return true
			}
			pass.Reportf(call.Pos(), "time.Now() called directly; read the current time from the injected clock")
			return true
		})
	}
	return nil, nil
}

func checked(pkgPath string) bool {
	name := path.Base(pkgPath)
	for _, p := range strings.Split(packages, ",") {
		if strings.TrimSpace(p) == name {
			return true
		}
	}
	return false
}

// isTimeNow reports whether call is time.Now().
func isTimeNow(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Now" {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == "time"
}

// hasNolintComment checks for a nolint comment on the call's line or the line before.
func hasNolintComment(pass *analysis.Pass, file *ast.File, call *ast.CallExpr) bool {
	line := pass.Fset.Position(call.Pos()).Line

	for _, cg := range file.Comments {
		for _, c := range cg.List {
			l := pass.Fset.Position(c.Pos()).Line
			if l != line && l != line-1 {
				continue
			}
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if !strings.HasPrefix(text, "nolint") {
				continue
			}
			rest := strings.TrimPrefix(text, "nolint")
			if rest == "" || strings.HasPrefix(rest, " ") {
				return true
			}
			if strings.HasPrefix(rest, ":") {
				linters := strings.Fields(rest[1:])
				if len(linters) > 0 && strings.Contains(","+linters[0]+",", ",clocknow,") {
					return true
				}
			}
		}
	}
	return false
}
