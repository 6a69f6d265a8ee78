package lexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves an #INCLUDE target to its source text.
type Loader func(path string) (string, error)

// FileLoader returns a Loader that reads units from disk, resolving
// relative paths against baseDir.
func FileLoader(baseDir string) Loader {
	return func(path string) (string, error) {
		full := path
		if baseDir != "" && !filepath.IsAbs(path) {
			full = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(full)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// RecordingLoader wraps load so every unit it resolves is captured in
// units, keyed by the path the include asked for. Spans from included
// units carry that same path, so diagnostic renderers can register the
// captured sources and show snippets from them.
func RecordingLoader(load Loader, units map[string]string) Loader {
	return func(path string) (string, error) {
		src, err := load(path)
		if err != nil {
			return "", err
		}
		units[path] = src
		return src, nil
	}
}

// MapLoader returns a Loader backed by an in-memory unit table.
func MapLoader(units map[string]string) Loader {
	return func(path string) (string, error) {
		src, ok := units[path]
		if !ok {
			return "", fmt.Errorf("unit %q not found", path)
		}
		return src, nil
	}
}

// Directive keywords, recognized only after a leading '#'.
const (
	dirInclude = "INCLUDE"
	dirDefine  = "DEFINE"
	dirUndef   = "UNDEF"
	dirIfdef   = "IFDEF"
	dirIfndef  = "IFNDEF"
	dirEnd     = "END"
)

// handleDirective processes one preprocessor directive. Called with
// l.ch == '#'; on return the lexer is positioned after the directive
// (or after the region it excluded) and NextToken resumes normal
// tokenization.
func (l *Lexer) handleDirective() {
	startLine, startColumn, startPos := l.line, l.column, l.pos
	l.read() // consume '#'
	l.skipBlanks()

	word := l.readDirectiveWord()
	span := l.spanFrom(startLine, startColumn, startPos)

	switch word {
	case dirInclude:
		l.directiveInclude(span)
	case dirDefine:
		name, ok := l.directiveName(span, dirDefine)
		if !ok {
			return
		}
		l.macros[name] = strings.TrimSpace(l.readRestOfLine())
	case dirUndef:
		name, ok := l.directiveName(span, dirUndef)
		if !ok {
			return
		}
		delete(l.macros, name)
	case dirIfdef, dirIfndef:
		name, ok := l.directiveName(span, word)
		if !ok {
			return
		}
		_, defined := l.macros[name]
		if (word == dirIfdef) == defined {
			l.condDepth++
		} else {
			l.skipRegion(span)
		}
	case dirEnd:
		if l.condDepth == 0 {
			l.addError(ErrUnbalancedCondition, "#END without matching #IFDEF or #IFNDEF", span)
			return
		}
		l.condDepth--
	default:
		if word == "" {
			l.addError(ErrMalformedDirective, "expected directive keyword after '#', got "+quoteRune(l.ch), span)
		} else {
			l.addError(ErrMalformedDirective, "unknown directive #"+word, span)
		}
		l.readRestOfLine()
	}
}

// directiveInclude splices the named unit's text in before the rest of
// the including unit.
func (l *Lexer) directiveInclude(span Span) {
	l.skipBlanks()
	if l.ch != '"' {
		l.addError(ErrMalformedDirective, "#INCLUDE expects a quoted unit name", span)
		l.readRestOfLine()
		return
	}
	path, terminated := l.readString()
	if !terminated {
		return
	}

	if l.including[path] {
		l.addError(ErrUnresolvedInclude, fmt.Sprintf("circular include of %q", path), span)
		return
	}
	src, err := l.loader(path)
	if err != nil {
		l.addError(ErrUnresolvedInclude, fmt.Sprintf("cannot resolve include %q: %v", path, err), span)
		return
	}

	l.including[path] = true
	l.pushFrame(path, src, frame{releaseInclude: path})
}

// directiveName reads the macro-name argument shared by DEFINE, UNDEF,
// IFDEF, and IFNDEF.
func (l *Lexer) directiveName(span Span, directive string) (string, bool) {
	l.skipBlanks()
	if !isIdentStart(l.ch) {
		l.addError(ErrMalformedDirective, "#"+directive+" expects a macro name", span)
		l.readRestOfLine()
		return "", false
	}
	return l.readIdentifier(), true
}

// skipRegion scans past an excluded conditional region without
// tokenizing it. Only directive nesting is tracked; the skipped text
// is never checked for well-formedness.
func (l *Lexer) skipRegion(span Span) {
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			l.addError(ErrUnbalancedCondition, "missing #END for excluded region", span)
			return
		}
		if l.ch != '#' {
			l.read()
			continue
		}
		l.read() // consume '#'
		l.skipBlanks()
		switch l.readDirectiveWord() {
		case dirIfdef, dirIfndef:
			depth++
		case dirEnd:
			depth--
		}
	}
}

// expandMacro splices a macro body in at an identifier use site.
// Definedness-only macros and macros already being expanded are left
// alone, so a self-referential body cannot loop.
func (l *Lexer) expandMacro(name string) bool {
	body, ok := l.macros[name]
	if !ok || body == "" || l.expanding[name] {
		return false
	}
	l.expanding[name] = true
	l.pushFrame(l.name, body, frame{releaseMacro: name})
	return true
}

// pushFrame suspends the current source and starts tokenizing src.
func (l *Lexer) pushFrame(name, src string, release frame) {
	saved := frame{
		name:           l.name,
		input:          l.input,
		pos:            l.pos,
		ch:             l.ch,
		line:           l.line,
		column:         l.column,
		releaseInclude: release.releaseInclude,
		releaseMacro:   release.releaseMacro,
	}
	l.frames = append(l.frames, saved)

	l.name = name
	l.input = []rune(src)
	l.pos = -1
	l.line = 1
	l.column = 0
	l.read()
}

// popFrame resumes the most recently suspended source. Returns false
// when no source remains, which is the real end of input.
func (l *Lexer) popFrame() bool {
	if len(l.frames) == 0 {
		return false
	}
	f := l.frames[len(l.frames)-1]
	l.frames = l.frames[:len(l.frames)-1]

	if f.releaseInclude != "" {
		delete(l.including, f.releaseInclude)
	}
	if f.releaseMacro != "" {
		delete(l.expanding, f.releaseMacro)
	}

	l.name = f.name
	l.input = f.input
	l.pos = f.pos
	l.ch = f.ch
	l.line = f.line
	l.column = f.column
	return true
}

// skipBlanks skips spaces and tabs without emitting layout tokens.
// Used inside directives, where interleaved whitespace is allowed
// between the '#', the keyword, and the argument.
func (l *Lexer) skipBlanks() {
	for l.ch == ' ' || l.ch == '\t' {
		l.read()
	}
}

// readDirectiveWord reads a run of uppercase letters.
func (l *Lexer) readDirectiveWord() string {
	start := l.pos
	for l.ch >= 'A' && l.ch <= 'Z' {
		l.read()
	}
	return string(l.input[start:l.pos])
}

// readRestOfLine consumes the remainder of the current line and
// returns it, leaving the newline for normal tokenization.
func (l *Lexer) readRestOfLine() string {
	start := l.pos
	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		l.read()
	}
	return string(l.input[start:l.pos])
}
