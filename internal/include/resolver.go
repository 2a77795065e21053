// Package include expands file-inclusion directives into a flat line
// stream, depth-first, with cycle detection. Resolution of a directive's
// target path is relative to the directory of the file containing the
// directive; reading bytes is delegated to the source.Loader capability.
package include

import (
	"fmt"
	"path/filepath"
	"strings"

	"nastrandiff/internal/diag"
	"nastrandiff/internal/record"
	"nastrandiff/internal/source"
)

// Edge is one resolved inclusion, kept for the deck's include graph.
// Unresolved directives (missing file, cycle) have To == From and are
// marked Broken.
type Edge struct {
	From   source.FileID
	To     source.FileID
	Line   uint32
	Target string
	Broken bool
}

// Resolver expands one root file. It owns the stack of files currently
// being expanded, so two concurrent deck assemblies must each use their
// own Resolver (and their own FileSet).
type Resolver struct {
	fs       *source.FileSet
	loader   source.Loader
	reporter diag.Reporter

	stack []string // canonical identities of in-progress files
	edges []Edge
}

func NewResolver(fs *source.FileSet, loader source.Loader, reporter diag.Reporter) *Resolver {
	return &Resolver{fs: fs, loader: loader, reporter: reporter}
}

// Edges returns the include graph accumulated by Expand.
func (r *Resolver) Edges() []Edge {
	return r.edges
}

// Expand loads the root file and returns its lines with every include
// directive replaced, in place, by the expanded contents of its target.
// A directive whose target is missing or already being expanded is
// reported and preserved verbatim as an unresolved marker, so the rest
// of the deck can still be compared. Only a root that cannot be loaded
// at all is a hard error.
func (r *Resolver) Expand(rootPath string) ([]record.PhysicalLine, error) {
	id, err := r.fs.Load(r.loader, rootPath)
	if err != nil {
		return nil, fmt.Errorf("load root deck %s: %w", rootPath, err)
	}
	return r.expandFile(id, rootPath), nil
}

func (r *Resolver) expandFile(id source.FileID, path string) []record.PhysicalLine {
	canonical := canonicalIdentity(path)
	r.stack = append(r.stack, canonical)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	f := r.fs.Get(id)
	numLines := f.NumLines()

	out := make([]record.PhysicalLine, 0, numLines)
	for lineNum := uint32(1); lineNum <= numLines; lineNum++ {
		text := f.GetLine(lineNum)
		loc := source.Loc{File: id, StartLine: lineNum, EndLine: lineNum}

		target, ok := parseDirective(text)
		if !ok {
			out = append(out, record.PhysicalLine{Text: text, Loc: loc})
			continue
		}
		if target == "" {
			diag.Warning(r.reporter, diag.IncludeBadPath, loc,
				"include directive has no usable path; line kept as-is")
			out = append(out, record.PhysicalLine{Text: text, Loc: loc})
			continue
		}

		resolved := target
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(filepath.Dir(path), resolved)
		}

		if cycle := r.findCycle(canonicalIdentity(resolved)); cycle != "" {
			diag.Error(r.reporter, diag.IncludeCircular, loc,
				"circular include of "+target+" ("+cycle+"); directive kept as unresolved marker")
			r.edges = append(r.edges, Edge{From: id, To: id, Line: lineNum, Target: target, Broken: true})
			out = append(out, record.PhysicalLine{Text: text, Loc: loc})
			continue
		}

		childID, err := r.fs.Load(r.loader, resolved)
		if err != nil {
			diag.Error(r.reporter, diag.IncludeNotFound, loc,
				"cannot load included file "+target+": "+err.Error())
			r.edges = append(r.edges, Edge{From: id, To: id, Line: lineNum, Target: target, Broken: true})
			out = append(out, record.PhysicalLine{Text: text, Loc: loc})
			continue
		}

		r.edges = append(r.edges, Edge{From: id, To: childID, Line: lineNum, Target: target})
		// Depth-first: the include's own contents are fully expanded,
		// in place, before the including file continues.
		out = append(out, r.expandFile(childID, resolved)...)
	}
	return out
}

// findCycle returns a printable cycle description if the candidate is
// already being expanded, or "" otherwise.
func (r *Resolver) findCycle(candidate string) string {
	for i, onStack := range r.stack {
		if onStack == candidate {
			parts := append(append([]string{}, r.stack[i:]...), candidate)
			return strings.Join(parts, " -> ")
		}
	}
	return ""
}

func canonicalIdentity(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// parseDirective recognizes an INCLUDE directive and extracts its target
// path. The keyword must start the line (the format requires it) and is
// matched case-insensitively; the path may be quoted with ' or ".
func parseDirective(line string) (target string, ok bool) {
	const keyword = "INCLUDE"
	if len(line) < len(keyword) || !strings.EqualFold(line[:len(keyword)], keyword) {
		return "", false
	}
	rest := line[len(keyword):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '\'' && rest[0] != '"' {
		// Something like INCLUDEX: an ordinary keyword, not a directive.
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", true
	}
	if quote := rest[0]; quote == '\'' || quote == '"' {
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return strings.TrimSpace(rest[1:]), true
		}
		return rest[1 : 1+end], true
	}
	if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
		rest = rest[:idx]
	}
	return rest, true
}
