// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package bind

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gobarg/barg/internal/decl"
	"github.com/gobarg/barg/internal/index"
	"github.com/gobarg/barg/internal/text"
)

func TestBindFlagPresenceTogglesDefault(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindFlag, Pattern: decl.Pattern{Short: 'a', Long: "alpha"}, Binding: "A"}
	argv := []string{"-a"}
	idx := index.Build(argv)
	res, err := Bind([]decl.Declaration{d}, argv, idx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["A"] != true {
		t.Fatalf("expected A=true, got %v", res.Bindings["A"])
	}
	if res.ArgvTable["A"] != "!" {
		t.Fatalf("expected ArgvTable[A]=\"!\", got %q", res.ArgvTable["A"])
	}
}

func TestBindFlagAbsentUsesDefault(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindFlag, Pattern: decl.Pattern{Short: 'a', Long: "alpha"}, Binding: "A"}
	res, err := Bind([]decl.Declaration{d}, []string{}, index.Index{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["A"] != false {
		t.Fatalf("expected A=false, got %v", res.Bindings["A"])
	}
}

func TestBindFlagInvertedDefault(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindFlag, Pattern: decl.Pattern{Short: 'a', Long: "alpha"}, Binding: "A", BoolDefault: true}
	argv := []string{"-a"}
	res, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["A"] != false {
		t.Fatalf("expected presence to invert a true default to false, got %v", res.Bindings["A"])
	}
}

func TestBindScalarLastWriteWins(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeStr, Pattern: decl.Pattern{Short: 'c', Long: "cat"}, Binding: "C"}
	argv := []string{"-c", "first", "-c", "second"}
	res, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["C"] != "second" {
		t.Fatalf("expected last occurrence to win, got %v", res.Bindings["C"])
	}
}

func TestBindScalarMissingRequired(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeStr, Required: true, Pattern: decl.Pattern{Long: "cat"}, Binding: "C"}
	_, err := Bind([]decl.Declaration{d}, []string{}, index.Index{}, false)
	if !errors.Is(err, text.ErrMissingRequired) {
		t.Fatalf("expected MissingRequired, got %v", err)
	}
}

func TestBindScalarParamLikeValue(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeStr, Pattern: decl.Pattern{Short: 'o', Long: "out"}, Binding: "O"}
	argv := []string{"-o", "-x"}
	_, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if !errors.Is(err, text.ErrParamLikeValue) {
		t.Fatalf("expected ParamLikeValue, got %v", err)
	}
}

func TestBindScalarEscapedDash(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeStr, Pattern: decl.Pattern{Short: 'o', Long: "out"}, Binding: "O"}
	argv := []string{"-o", "--", "--weird"}
	res, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["O"] != "--weird" {
		t.Fatalf("expected O=--weird, got %v", res.Bindings["O"])
	}
}

func TestBindScalarTrailingDashWithNoFollowingToken(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeStr, Pattern: decl.Pattern{Short: 'o', Long: "out"}, Binding: "O"}
	argv := []string{"-o", "--"}
	_, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if !errors.Is(err, text.ErrParamLikeValue) {
		t.Fatalf("expected ParamLikeValue when -- is the final token, got %v", err)
	}
}

func TestBindScalarIntCoercion(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeInt, Pattern: decl.Pattern{Short: 't', Long: "times"}, Binding: "T"}
	argv := []string{"-t", "2"}
	res, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["T"] != int64(2) {
		t.Fatalf("expected T=2 (int64), got %v (%T)", res.Bindings["T"], res.Bindings["T"])
	}
}

func TestBindScalarIntGroupedUnderscores(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeInt, Pattern: decl.Pattern{Long: "num"}, Binding: "N"}
	argv := []string{"--num", "1_000"}
	res, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["N"] != int64(1000) {
		t.Fatalf("expected N=1000, got %v", res.Bindings["N"])
	}
}

func TestBindScalarTypeMismatch(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeInt, Pattern: decl.Pattern{Long: "num"}, Binding: "N"}
	argv := []string{"--num", "abc"}
	_, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if !errors.Is(err, text.ErrTypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestBindScalarUnknownFormat(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeInt, Pattern: decl.Pattern{Long: "num"}, Binding: "N"}
	argv := []string{"--num", "1.5.5"}
	_, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if !errors.Is(err, text.ErrUnknownFormat) {
		t.Fatalf("expected UnknownFormat, got %v", err)
	}
}

func TestBindVectorOrderPreservation(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindVector, ValueType: decl.TypeStr, Pattern: decl.Pattern{Long: "item"}, Binding: "ITEMS"}
	argv := []string{"--item", "a", "--item", "b", "--item", "c"}
	res, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := res.Bindings["ITEMS"].([]string)
	if !ok {
		t.Fatalf("expected []string, got %T", res.Bindings["ITEMS"])
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected ordered [a b c], got %v", got)
	}
}

func TestBindVectorEmptyIsTypedEmptySlice(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindVector, ValueType: decl.TypeInt, Pattern: decl.Pattern{Long: "num"}, Binding: "N"}
	res, err := Bind([]decl.Declaration{d}, []string{}, index.Index{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := res.Bindings["N"].([]int64)
	if !ok {
		t.Fatalf("expected []int64, got %T", res.Bindings["N"])
	}
	if len(got) != 0 {
		t.Fatalf("expected an empty slice, got %v", got)
	}
}

func TestBindEnumValidChoice(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindEnum, Choices: []string{"debug", "info", "warn", "error"}, Pattern: decl.Pattern{Short: 'l', Long: "level"}, Binding: "L"}
	argv := []string{"--level", "warn"}
	res, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["L"] != "warn" {
		t.Fatalf("expected L=warn, got %v", res.Bindings["L"])
	}
}

func TestBindEnumInvalidChoice(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindEnum, Choices: []string{"debug", "info", "warn", "error"}, Pattern: decl.Pattern{Short: 'l', Long: "level"}, Binding: "L"}
	argv := []string{"--level", "nope"}
	_, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if !errors.Is(err, text.ErrInvalidChoice) {
		t.Fatalf("expected InvalidChoice, got %v", err)
	}
}

func TestBindEnumDefaultWhenAbsent(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindEnum, Choices: []string{"debug", "info"}, Pattern: decl.Pattern{Long: "level"}, Binding: "L"}
	res, err := Bind([]decl.Declaration{d}, []string{}, index.Index{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["L"] != "debug" {
		t.Fatalf("expected implicit first-choice default, got %v", res.Bindings["L"])
	}
}

func TestBindScalarRequiredWithDefaultStillMissing(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindScalar, ValueType: decl.TypeStr, Required: true, Default: "fallback", Pattern: decl.Pattern{Long: "cat"}, Binding: "C"}
	_, err := Bind([]decl.Declaration{d}, []string{}, index.Index{}, false)
	if !errors.Is(err, text.ErrMissingRequired) {
		t.Fatalf("expected MissingRequired even though a default literal is present, got %v", err)
	}
}

func TestBindEnumRequiredAbsent(t *testing.T) {
	d := decl.Declaration{Kind: decl.KindEnum, Required: true, Choices: []string{"debug", "info"}, Pattern: decl.Pattern{Long: "level"}, Binding: "L"}
	_, err := Bind([]decl.Declaration{d}, []string{}, index.Index{}, false)
	if !errors.Is(err, text.ErrMissingRequired) {
		t.Fatalf("expected MissingRequired, got %v", err)
	}
}

func TestBindSwitchFirstMatchWins(t *testing.T) {
	d := decl.Declaration{
		Kind: decl.KindSwitch,
		Arms: []decl.Arm{
			{Short: 'l', Long: "list", Value: "list"},
			{Short: 'g', Long: "get", Value: "download"},
			{Short: 'r', Long: "remove", Value: "remove"},
		},
		Required: true,
		Binding:  "MODE",
	}
	argv := []string{"-g"}
	res, err := Bind([]decl.Declaration{d}, argv, index.Build(argv), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["MODE"] != "download" {
		t.Fatalf("expected MODE=download, got %v", res.Bindings["MODE"])
	}
}

func TestBindSwitchRequiredAbsent(t *testing.T) {
	d := decl.Declaration{
		Kind:     decl.KindSwitch,
		Arms:     []decl.Arm{{Short: 'l', Long: "list", Value: "list"}},
		Required: true,
		Binding:  "MODE",
	}
	_, err := Bind([]decl.Declaration{d}, []string{}, index.Index{}, false)
	if !errors.Is(err, text.ErrMissingRequired) {
		t.Fatalf("expected MissingRequired, got %v", err)
	}
}

func TestBindSwitchOptionalDefault(t *testing.T) {
	d := decl.Declaration{
		Kind:    decl.KindSwitch,
		Arms:    []decl.Arm{{Short: 'l', Long: "list", Value: "list"}},
		Binding: "MODE",
	}
	res, err := Bind([]decl.Declaration{d}, []string{}, index.Index{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bindings["MODE"] != "0" {
		t.Fatalf("expected fallback default \"0\", got %v", res.Bindings["MODE"])
	}
}
