// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package dsl

import (
	"fmt"
	"strconv"
	"strings"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/gobarg/barg/internal/decl"
	"github.com/gobarg/barg/internal/text"
	"github.com/gobarg/barg/internal/tracelog"
)

// Document is the parsed form of a whole DSL text, before scope validation.
type Document struct {
	Configuration decl.Configuration
	Subcommands   []decl.Subcommand
	Declarations  []decl.Declaration
	Always        bool
}

// Parse lexes and parses a complete DSL text into a Document. Diagnostics
// across every declaration line are batched into one multierror so a
// caller sees every mistake in the definition at once instead of one at a
// time, the way the teacher's own option registration reports duplicate
// definitions.
func Parse(src string, programName string) (Document, error) {
	body, always := stripDirectiveAndComments(src)
	lines := splitLogicalLines(body)

	doc := Document{
		Configuration: decl.DefaultConfiguration(programName),
		Always:        always,
	}

	var errs *multierror.Error
	for _, ll := range lines {
		toks := Tokenize(ll.Text, ll.Line)
		if len(toks) == 0 {
			continue
		}
		switch {
		case toks[0].Text == "meta" && !toks[0].Quoted:
			if err := parseMeta(toks, &doc.Configuration); err != nil {
				errs = multierror.Append(errs, err)
			}
		case toks[0].Text == "commands" && !toks[0].Quoted:
			subs, err := parseCommands(toks)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			doc.Subcommands = append(doc.Subcommands, subs...)
		default:
			d, err := parseDeclaration(toks)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			doc.Declarations = append(doc.Declarations, d)
		}
	}

	if errs != nil {
		errs.ErrorFormat = func(es []error) string {
			s := fmt.Sprintf("%d error(s) parsing definition:", len(es))
			for _, e := range es {
				s += "\n  - " + e.Error()
			}
			return s
		}
		return doc, errs
	}
	return doc, nil
}

func expect(toks []Token, i int, text string) bool {
	return i < len(toks) && toks[i].Text == text && !toks[i].Quoted
}

func isWordTok(t Token) bool {
	return !t.Quoted && t.Text != "" && isWordChar(t.Text[0])
}

// --- meta { … } -------------------------------------------------------

var metaKeys = map[string]func(*decl.Configuration, any) error{
	"program_name":         setString(func(c *decl.Configuration, s string) { c.ProgramName = s }),
	"summary":              setString(func(c *decl.Configuration, s string) { c.Summary = s }),
	"color_palette":        setString(func(c *decl.Configuration, s string) { c.ColorPalette = s }),
	"on_error_hook":        setString(func(c *decl.Configuration, s string) { c.OnErrorHook = s }),
	"epilog_source":        setString(func(c *decl.Configuration, s string) { c.EpilogSource = s }),
	"spare_args_binding":   setString(func(c *decl.Configuration, s string) { c.SpareArgsBinding = s }),
	"spare_args_required":  setBool(func(c *decl.Configuration, b bool) { c.SpareArgsRequired = b }),
	"subcommand_required":  setBool(func(c *decl.Configuration, b bool) { c.SubcommandRequired = b }),
	"allow_empty_values":   setBool(func(c *decl.Configuration, b bool) { c.AllowEmptyValues = b }),
	"show_defaults":        setBool(func(c *decl.Configuration, b bool) { c.ShowDefaults = b }),
	"help_enabled":         setBool(func(c *decl.Configuration, b bool) { c.HelpEnabled = b }),
	"completion_enabled":   setBool(func(c *decl.Configuration, b bool) { c.CompletionEnabled = b }),
	"quiet_exit":           setBool(func(c *decl.Configuration, b bool) { c.QuietExit = b }),
	"use_stderr":           setBool(func(c *decl.Configuration, b bool) { c.UseStderr = b }),
}

func setString(f func(*decl.Configuration, string)) func(*decl.Configuration, any) error {
	return func(c *decl.Configuration, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: expected string value", text.ErrDSLSyntax)
		}
		f(c, s)
		return nil
	}
}

func setBool(f func(*decl.Configuration, bool)) func(*decl.Configuration, any) error {
	return func(c *decl.Configuration, v any) error {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: expected true/false value", text.ErrDSLSyntax)
		}
		f(c, b)
		return nil
	}
}

func parseMeta(toks []Token, cfg *decl.Configuration) error {
	log := tracelog.Named("dsl")
	i := 1
	if !expect(toks, i, "{") {
		return fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, "meta", "expected '{'"))
	}
	i++
	seen := map[string]bool{}
	var errs *multierror.Error
	for i < len(toks) && toks[i].Text != "}" {
		key := toks[i]
		i++
		if !expect(toks, i, ":") {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
				fmt.Sprintf(text.MsgDSLSyntax, key.Text, "expected ':'")))
			break
		}
		i++
		if i >= len(toks) {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
				fmt.Sprintf(text.MsgDSLSyntax, key.Text, "missing value")))
			break
		}
		val := parseLiteral(toks[i])
		i++
		setter, ok := metaKeys[key.Text]
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrInvalidOption,
				fmt.Sprintf(text.MsgInvalidMetaKey, key.Text)))
			continue
		}
		if seen[key.Text] {
			log.Warn("duplicate meta key overwrites the earlier value", "key", key.Text)
		}
		seen[key.Text] = true
		if err := setter(cfg, val); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}

// --- commands { … } -----------------------------------------------------

func parseCommands(toks []Token) ([]decl.Subcommand, error) {
	i := 1
	if !expect(toks, i, "{") {
		return nil, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, "commands", "expected '{'"))
	}
	i++
	var subs []decl.Subcommand
	var errs *multierror.Error
	for i < len(toks) && toks[i].Text != "}" {
		var needsSpare bool
		if expect(toks, i, "*") {
			needsSpare = true
			i++
		}
		if i >= len(toks) {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
				fmt.Sprintf(text.MsgDSLSyntax, "commands", "expected subcommand name")))
			break
		}
		name := toks[i].Text
		i++
		if !expect(toks, i, ":") {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
				fmt.Sprintf(text.MsgDSLSyntax, name, "expected ':'")))
			break
		}
		i++
		if i >= len(toks) {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", text.ErrDSLSyntax,
				fmt.Sprintf(text.MsgDSLSyntax, name, "missing description")))
			break
		}
		desc := toks[i].Text
		i++
		subs = append(subs, decl.Subcommand{Name: name, Description: desc, NeedsSpare: needsSpare})
	}
	if errs != nil {
		return subs, errs
	}
	return subs, nil
}

// --- declaration --------------------------------------------------------

func parseDeclaration(toks []Token) (decl.Declaration, error) {
	var d decl.Declaration
	i := 0

	d.Scope = decl.Scope{Kind: decl.ScopeGlobalAlways}
	if expect(toks, i, "@") {
		at := toks[i]
		i++
		// A subcommand name must be glued directly to "@" with no
		// whitespace ("@install"); a bare "@" followed (with a space) by
		// the next token means global-only scope, and that next token
		// starts the option spec instead.
		if i < len(toks) && isWordTok(toks[i]) && GluedToPrev(at, toks[i]) {
			d.Scope = decl.Scope{Kind: decl.ScopeSubcommand, Name: toks[i].Text}
			i++
		} else {
			d.Scope = decl.Scope{Kind: decl.ScopeGlobalOnly}
		}
	}

	if expect(toks, i, "!") {
		d.Required = true
		i++
	}

	switchName := ""
	if i < len(toks) && toks[i].Quoted && i+1 < len(toks) && toks[i+1].Text == "{" {
		switchName = toks[i].Text
		i++
	}
	if expect(toks, i, "{") {
		i++
		arms, ni, err := parseArms(toks, i)
		if err != nil {
			return d, err
		}
		i = ni
		d.Kind = decl.KindSwitch
		d.Arms = arms
		d.SwitchName = switchName
		return finishDeclaration(d, toks, i)
	}

	if i >= len(toks) {
		return d, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, "<eof>", "expected an option"))
	}

	var pattern decl.Pattern
	if i+1 < len(toks) && len(toks[i].Text) == 1 && !toks[i].Quoted && toks[i+1].Text == "/" {
		pattern.Short = toks[i].Text[0]
		i += 2
		if i >= len(toks) {
			return d, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, string(pattern.Short), "expected long name"))
		}
		pattern.Long = toks[i].Text
		i++
	} else {
		pattern.Long = toks[i].Text
		i++
	}
	d.Pattern = pattern

	if expect(toks, i, "[") {
		i++
		var choices []string
		for i < len(toks) && toks[i].Text != "]" {
			choices = append(choices, toks[i].Text)
			i++
		}
		if i < len(toks) {
			i++ // "]"
		}
		d.Kind = decl.KindEnum
		d.Choices = choices
		return finishDeclaration(d, toks, i)
	}

	d.Kind = decl.KindScalar
	d.ValueType = decl.TypeStr
	if expect(toks, i, ":") {
		i++
		if i >= len(toks) {
			return d, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, pattern.Long, "expected a type after ':'"))
		}
		typeName := toks[i].Text
		i++
		if typeName == "flag" {
			d.Kind = decl.KindFlag
		} else {
			base, vector := splitPlural(typeName)
			vt, ok := parseValueType(base)
			if !ok {
				return d, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, pattern.Long, "unknown type "+typeName))
			}
			d.ValueType = vt
			if vector {
				d.Kind = decl.KindVector
			}
		}
	}

	return finishDeclaration(d, toks, i)
}

func splitPlural(typeName string) (base string, plural bool) {
	if strings.HasSuffix(typeName, "s") && len(typeName) > 1 {
		return typeName[:len(typeName)-1], true
	}
	return typeName, false
}

func parseValueType(base string) (decl.ValueType, bool) {
	switch base {
	case "str":
		return decl.TypeStr, true
	case "int":
		return decl.TypeInt, true
	case "float":
		return decl.TypeFloat, true
	case "num":
		return decl.TypeNum, true
	}
	return decl.TypeStr, false
}

func parseArms(toks []Token, i int) ([]decl.Arm, int, error) {
	var arms []decl.Arm
	for i < len(toks) && toks[i].Text != "}" {
		var a decl.Arm
		if i+1 < len(toks) && len(toks[i].Text) == 1 && !toks[i].Quoted && toks[i+1].Text == "/" {
			a.Short = toks[i].Text[0]
			i += 2
		}
		if i >= len(toks) {
			return nil, i, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, "switch", "expected arm name"))
		}
		a.Long = toks[i].Text
		i++
		if !expect(toks, i, ":") {
			return nil, i, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, a.Long, "expected ':'"))
		}
		i++
		if i >= len(toks) {
			return nil, i, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, a.Long, "expected arm value"))
		}
		a.Value = toks[i].Text
		i++
		if i < len(toks) && toks[i].Text == "h" && !toks[i].Quoted {
			i++
			if i < len(toks) {
				a.Help = toks[i].Text
				i++
			}
		}
		arms = append(arms, a)
	}
	if i < len(toks) {
		i++ // "}"
	}
	return arms, i, nil
}

func finishDeclaration(d decl.Declaration, toks []Token, i int) (decl.Declaration, error) {
	if i < len(toks) && toks[i].Text != "=>" {
		lit := toks[i]
		i++
		val := parseLiteral(lit)
		d.Default = val
		if d.Kind == decl.KindFlag {
			if b, ok := val.(bool); ok {
				d.BoolDefault = b
			}
		}
	}

	label := d.Pattern.String()
	if d.Kind == decl.KindSwitch {
		label = "switch"
	}

	if !expect(toks, i, "=>") {
		return d, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, label, "expected '=>'"))
	}
	i++
	if i >= len(toks) {
		return d, fmt.Errorf("%w: %s", text.ErrDSLSyntax, fmt.Sprintf(text.MsgDSLSyntax, label, "expected a binding name"))
	}
	d.Binding = toks[i].Text
	i++
	if err := decl.ValidateBinding(d.Binding); err != nil {
		return d, err
	}

	if i < len(toks) {
		var parts []string
		for ; i < len(toks); i++ {
			parts = append(parts, toks[i].Text)
		}
		d.Description = strings.Join(parts, " ")
	}
	return d, nil
}

func parseLiteral(t Token) any {
	if t.Quoted {
		return t.Text
	}
	switch t.Text {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(t.Text, 10, 64); err == nil {
		return n
	}
	if strings.Contains(t.Text, ".") {
		if f, err := strconv.ParseFloat(t.Text, 64); err == nil {
			return f
		}
	}
	return t.Text
}
