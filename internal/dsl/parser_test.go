// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package dsl

import (
	"errors"
	"testing"

	"github.com/gobarg/barg/internal/decl"
	"github.com/gobarg/barg/internal/text"
)

func TestParseDeclarationKinds(t *testing.T) {
	tests := []struct {
		name string
		line string
		want decl.Declaration
	}{
		{
			"flag with short and long",
			`a/alpha :flag => A`,
			decl.Declaration{Scope: decl.Scope{Kind: decl.ScopeGlobalAlways}, Kind: decl.KindFlag,
				Pattern: decl.Pattern{Short: 'a', Long: "alpha"}, Binding: "A"},
		},
		{
			"scalar int",
			`t/times :int => T`,
			decl.Declaration{Scope: decl.Scope{Kind: decl.ScopeGlobalAlways}, Kind: decl.KindScalar, ValueType: decl.TypeInt,
				Pattern: decl.Pattern{Short: 't', Long: "times"}, Binding: "T"},
		},
		{
			"vector of strings",
			`tag :strs => TAGS`,
			decl.Declaration{Scope: decl.Scope{Kind: decl.ScopeGlobalAlways}, Kind: decl.KindVector, ValueType: decl.TypeStr,
				Pattern: decl.Pattern{Long: "tag"}, Binding: "TAGS"},
		},
		{
			"enum with choices",
			`l/level ["debug" "info" "warn" "error"] => L`,
			decl.Declaration{Scope: decl.Scope{Kind: decl.ScopeGlobalAlways}, Kind: decl.KindEnum,
				Pattern: decl.Pattern{Short: 'l', Long: "level"}, Choices: []string{"debug", "info", "warn", "error"}, Binding: "L"},
		},
		{
			"required subcommand-scoped flag",
			`@install ! u/update :flag => U`,
			decl.Declaration{Scope: decl.Scope{Kind: decl.ScopeSubcommand, Name: "install"}, Required: true, Kind: decl.KindFlag,
				Pattern: decl.Pattern{Short: 'u', Long: "update"}, Binding: "U"},
		},
		{
			"global-only scope",
			`@ g/global :flag => G`,
			decl.Declaration{Scope: decl.Scope{Kind: decl.ScopeGlobalOnly}, Kind: decl.KindFlag,
				Pattern: decl.Pattern{Short: 'g', Long: "global"}, Binding: "G"},
		},
		{
			"switch",
			`! {l/list:"list" g/get:"download" r/remove:"remove"} => MODE`,
			decl.Declaration{Scope: decl.Scope{Kind: decl.ScopeGlobalAlways}, Required: true, Kind: decl.KindSwitch,
				Arms: []decl.Arm{
					{Short: 'l', Long: "list", Value: "list"},
					{Short: 'g', Long: "get", Value: "download"},
					{Short: 'r', Long: "remove", Value: "remove"},
				}, Binding: "MODE"},
		},
		{
			"scalar with description",
			`o/out :str => OUT the output file`,
			decl.Declaration{Scope: decl.Scope{Kind: decl.ScopeGlobalAlways}, Kind: decl.KindScalar, ValueType: decl.TypeStr,
				Pattern: decl.Pattern{Short: 'o', Long: "out"}, Binding: "OUT", Description: "the output file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Tokenize(tt.line, 1)
			got, err := parseDeclaration(toks)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Scope != tt.want.Scope {
				t.Errorf("scope = %+v, want %+v", got.Scope, tt.want.Scope)
			}
			if got.Required != tt.want.Required {
				t.Errorf("required = %v, want %v", got.Required, tt.want.Required)
			}
			if got.Kind != tt.want.Kind {
				t.Errorf("kind = %v, want %v", got.Kind, tt.want.Kind)
			}
			if got.ValueType != tt.want.ValueType {
				t.Errorf("value type = %v, want %v", got.ValueType, tt.want.ValueType)
			}
			if got.Pattern != tt.want.Pattern {
				t.Errorf("pattern = %+v, want %+v", got.Pattern, tt.want.Pattern)
			}
			if got.Binding != tt.want.Binding {
				t.Errorf("binding = %q, want %q", got.Binding, tt.want.Binding)
			}
			if got.Description != tt.want.Description {
				t.Errorf("description = %q, want %q", got.Description, tt.want.Description)
			}
			if len(got.Choices) != len(tt.want.Choices) {
				t.Errorf("choices = %v, want %v", got.Choices, tt.want.Choices)
			}
			if len(got.Arms) != len(tt.want.Arms) {
				t.Fatalf("arms = %v, want %v", got.Arms, tt.want.Arms)
			}
			for i := range got.Arms {
				if got.Arms[i] != tt.want.Arms[i] {
					t.Errorf("arm %d = %+v, want %+v", i, got.Arms[i], tt.want.Arms[i])
				}
			}
		})
	}
}

func TestParseDeclarationErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		err  error
	}{
		{"missing arrow", `a/alpha :flag`, text.ErrDSLSyntax},
		{"missing binding", `a/alpha :flag =>`, text.ErrDSLSyntax},
		{"reserved binding", `a/alpha :flag => PATH`, text.ErrIllegalBinding},
		{"illegal binding syntax", `a/alpha :flag => 1bad`, text.ErrIllegalBinding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Tokenize(tt.line, 1)
			_, err := parseDeclaration(toks)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("error = %v, want wrapping %v", err, tt.err)
			}
		})
	}
}

func TestParseMetaAndCommands(t *testing.T) {
	src := `
meta {
	summary: "a demo program"
	spare_args_required: true
	help_enabled: true
}

commands {
	*install: "install a package"
	list: "list packages"
}

a/alpha :flag => A
`
	doc, err := Parse(src, "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Configuration.Summary != "a demo program" {
		t.Errorf("summary = %q", doc.Configuration.Summary)
	}
	if !doc.Configuration.SpareArgsRequired {
		t.Errorf("expected spare_args_required true")
	}
	if !doc.Configuration.HelpEnabled {
		t.Errorf("expected help_enabled true")
	}
	if len(doc.Subcommands) != 2 {
		t.Fatalf("expected 2 subcommands, got %d", len(doc.Subcommands))
	}
	if doc.Subcommands[0].Name != "install" || !doc.Subcommands[0].NeedsSpare {
		t.Errorf("install subcommand = %+v", doc.Subcommands[0])
	}
	if doc.Subcommands[1].Name != "list" || doc.Subcommands[1].NeedsSpare {
		t.Errorf("list subcommand = %+v", doc.Subcommands[1])
	}
	if len(doc.Declarations) != 1 || doc.Declarations[0].Binding != "A" {
		t.Fatalf("declarations = %+v", doc.Declarations)
	}
}

func TestParseAlwaysDirective(t *testing.T) {
	src := "#[always]\na/alpha :flag => A\n"
	doc, err := Parse(src, "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.Always {
		t.Errorf("expected Always directive to be recognized")
	}
	if len(doc.Declarations) != 1 {
		t.Fatalf("declarations = %+v", doc.Declarations)
	}
}

func TestParseUnknownMetaKey(t *testing.T) {
	src := "meta {\n\tbogus: \"x\"\n}\n"
	_, err := Parse(src, "demo")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, text.ErrInvalidOption) {
		t.Errorf("error = %v, want wrapping ErrInvalidOption", err)
	}
}

func TestCommentLinesIgnored(t *testing.T) {
	src := "# a leading comment\na/alpha :flag => A\n# trailing comment\n"
	doc, err := Parse(src, "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Declarations) != 1 {
		t.Fatalf("declarations = %+v", doc.Declarations)
	}
}
