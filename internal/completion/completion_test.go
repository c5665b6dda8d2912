// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package completion

import (
	"strings"
	"testing"

	"github.com/gobarg/barg/internal/decl"
)

func names(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Value
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func TestSuggestSubcommandNames(t *testing.T) {
	subs := []decl.Subcommand{{Name: "install"}, {Name: "inspect"}, {Name: "list"}}
	got := names(Suggest(nil, subs, false, []string{"in"}))
	if !contains(got, "install") || !contains(got, "inspect") || contains(got, "list") {
		t.Errorf("got %v", got)
	}
}

func TestSuggestHelpFlagWhenSubcommandRequired(t *testing.T) {
	subs := []decl.Subcommand{{Name: "install"}}
	got := names(Suggest(nil, subs, true, []string{"-"}))
	if !contains(got, "-h") || !contains(got, "--help") {
		t.Errorf("expected help suggestions, got %v", got)
	}
}

func TestSuggestOptionPrefixSuppressesUsed(t *testing.T) {
	decls := []decl.Declaration{
		{Kind: decl.KindFlag, Pattern: decl.Pattern{Short: 'a', Long: "alpha"}, Binding: "A"},
		{Kind: decl.KindFlag, Pattern: decl.Pattern{Short: 'b', Long: "beta"}, Binding: "B"},
	}
	got := names(Suggest(decls, nil, false, []string{"--alpha", "--b"}))
	if !contains(got, "--beta") {
		t.Errorf("expected --beta suggested, got %v", got)
	}
	if contains(got, "--alpha") || contains(got, "-a") {
		t.Errorf("expected alpha suppressed as already used, got %v", got)
	}
}

func TestSuggestLongSuppressedBySingleDash(t *testing.T) {
	decls := []decl.Declaration{
		{Kind: decl.KindFlag, Pattern: decl.Pattern{Short: 'a', Long: "alpha"}, Binding: "A"},
	}
	got := names(Suggest(decls, nil, false, []string{"-a"}))
	if contains(got, "--alpha") {
		t.Errorf("long form should be suppressed for a single-dash prefix, got %v", got)
	}
	if !contains(got, "-a") {
		t.Errorf("expected short form suggested, got %v", got)
	}
}

func TestSuggestShortSuppressedByDoubleDash(t *testing.T) {
	decls := []decl.Declaration{
		{Kind: decl.KindFlag, Pattern: decl.Pattern{Short: 'a', Long: "alpha"}, Binding: "A"},
	}
	got := names(Suggest(decls, nil, false, []string{"--"}))
	if contains(got, "-a") {
		t.Errorf("short form should be suppressed for a double-dash prefix, got %v", got)
	}
	if !contains(got, "--alpha") {
		t.Errorf("expected long form suggested, got %v", got)
	}
}

func TestSuggestEnumValuesAfterFlag(t *testing.T) {
	decls := []decl.Declaration{
		{Kind: decl.KindEnum, Pattern: decl.Pattern{Short: 'l', Long: "level"}, Choices: []string{"debug", "info", "warn"}, Binding: "L"},
	}
	got := Suggest(decls, nil, false, []string{"-l", "d"})
	if len(got) != 1 || got[0].Value != "debug" || got[0].Color != ColorEnumValue {
		t.Fatalf("got %+v", got)
	}
}

func TestRenderTSV(t *testing.T) {
	out := RenderTSV([]Suggestion{{Value: "--alpha", Color: ColorOptionalFlag, Description: "enable alpha"}})
	if out != "--alpha\t1\tenable alpha\n" {
		t.Errorf("got %q", out)
	}
}

func TestRenderNucomp(t *testing.T) {
	out, err := RenderNucomp([]Suggestion{{Value: "install", Color: ColorSubcommand, Description: "install a package"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"value":"install"`) || !strings.Contains(out, `"fg":"green"`) {
		t.Errorf("got %s", out)
	}
}

func TestRenderNucompPadsDisplayToWidestValue(t *testing.T) {
	out, err := RenderNucomp([]Suggestion{
		{Value: "-a", Color: ColorOptionalFlag},
		{Value: "--alpha", Color: ColorOptionalFlag},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"display":"-a     "`) {
		t.Errorf("expected the shorter value padded to match --alpha's width, got %s", out)
	}
	if !strings.Contains(out, `"display":"--alpha"`) {
		t.Errorf("expected the widest value unpadded, got %s", out)
	}
}
