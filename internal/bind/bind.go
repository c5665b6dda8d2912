// This file is part of barg.
//
// Copyright (C) 2015-2025  David Gamba Rios
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package bind implements the Bind & Validate Engine (spec.md §4.5): for
// each declaration relevant to the active scope it locates occurrences in
// the flag-occurrence index, applies type coercion and validation, writes
// the output binding, and marks the argv slots it consumed.
package bind

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gobarg/barg/internal/decl"
	"github.com/gobarg/barg/internal/index"
	"github.com/gobarg/barg/internal/text"
	"github.com/gobarg/barg/internal/tracelog"
)

// Result - the outcome of binding one active scope's declarations.
type Result struct {
	Bindings  map[string]any
	ArgvTable map[string]string // binding -> "!" when set from argv
	Taken     map[int]bool      // argv slot indices consumed by a bind
}

// numeric grammars, per the Glossary in spec.md.
var (
	looksNumericRe  = regexp.MustCompile(`^-?[0-9_.]+$`)
	intGroupedRe    = regexp.MustCompile(`^-?\d{1,3}(_\d{3})*$`)
	intPlainRe      = regexp.MustCompile(`^-?\d*$`)
	floatGroupedRe  = regexp.MustCompile(`^-?\d{1,3}(_\d{3})+\.\d+$`)
	floatPlainRe    = regexp.MustCompile(`^-?\d+\.\d+$`)
)

func validateInt(s string) bool {
	return intGroupedRe.MatchString(s) || intPlainRe.MatchString(s)
}

func validateFloat(s string) bool {
	return floatGroupedRe.MatchString(s) || floatPlainRe.MatchString(s)
}

func validateNum(s string) bool {
	return validateInt(s) || validateFloat(s)
}

func stripUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", "")
}

// coerce validates and converts a raw scalar token to its typed value.
func coerce(vt decl.ValueType, alias, raw string) (any, error) {
	if vt == decl.TypeStr {
		return raw, nil
	}
	var ok bool
	switch vt {
	case decl.TypeInt:
		ok = validateInt(raw)
	case decl.TypeFloat:
		ok = validateFloat(raw)
	case decl.TypeNum:
		ok = validateNum(raw)
	}
	if ok {
		clean := stripUnderscores(raw)
		switch vt {
		case decl.TypeInt:
			i, err := strconv.ParseInt(clean, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", text.ErrUnknownFormat, fmt.Sprintf(text.MsgUnknownFormat, raw, alias, vt))
			}
			return i, nil
		case decl.TypeFloat, decl.TypeNum:
			if strings.Contains(clean, ".") {
				f, err := strconv.ParseFloat(clean, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: %s", text.ErrUnknownFormat, fmt.Sprintf(text.MsgUnknownFormat, raw, alias, vt))
				}
				return f, nil
			}
			i, err := strconv.ParseInt(clean, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", text.ErrUnknownFormat, fmt.Sprintf(text.MsgUnknownFormat, raw, alias, vt))
			}
			return i, nil
		}
	}
	if looksNumericRe.MatchString(raw) {
		return nil, fmt.Errorf("%w: %s", text.ErrUnknownFormat, fmt.Sprintf(text.MsgUnknownFormat, raw, alias, vt))
	}
	return nil, fmt.Errorf("%w: %s", text.ErrTypeMismatch, fmt.Sprintf(text.MsgTypeMismatch, raw, alias, vt))
}

// patternTokens returns the literal argv flag spellings for a Pattern.
func patternTokens(p decl.Pattern) []string {
	var toks []string
	if p.HasShort() {
		toks = append(toks, "-"+string(p.Short))
	}
	if p.HasLong() {
		toks = append(toks, "--"+p.Long)
	}
	return toks
}

// occurrences returns the ordered value-slot indices for every alias of a
// pattern, sorted so aliases used interchangeably still yield argv order.
func occurrences(idx index.Index, p decl.Pattern) []int {
	var slots []int
	for _, tok := range patternTokens(p) {
		slots = append(slots, idx[tok]...)
	}
	sort.Ints(slots)
	return slots
}

// slotValue resolves the argv slot immediately after a flag occurrence to
// its literal string value, per spec.md §4.5 and the Open Question in §9.
// It returns the value, the argv index the value actually came from, and
// whether that index needs to also mark the intervening "--" slot taken.
func slotValue(argv []string, slot int, alias string) (value string, resolvedIdx int, dashEscaped bool, err error) {
	if slot >= len(argv) {
		return "", -1, false, fmt.Errorf("%w: %s", text.ErrParamLikeValue, fmt.Sprintf(text.MsgMissingValue, alias))
	}
	tok := argv[slot]
	if tok == "--" {
		if slot+1 >= len(argv) {
			return "", -1, false, fmt.Errorf("%w: %s", text.ErrParamLikeValue, fmt.Sprintf(text.MsgMissingValue, alias))
		}
		return argv[slot+1], slot + 1, true, nil
	}
	if strings.HasPrefix(tok, "-") {
		return "", -1, false, fmt.Errorf("%w: %s", text.ErrParamLikeValue, fmt.Sprintf(text.MsgParamLikeValue, alias))
	}
	return tok, slot, false, nil
}

func aliasLabel(p decl.Pattern) string { return p.String() }

func checkEmptyRequired(binding, value string, required, allowEmpty bool) error {
	if required && !allowEmpty && value == "" {
		return fmt.Errorf("%w: %s", text.ErrMissingRequired, fmt.Sprintf(text.MsgMissingRequiredOpt, binding))
	}
	return nil
}

// Bind runs the engine over one active scope's declarations.
func Bind(declarations []decl.Declaration, argv []string, idx index.Index, allowEmptyValues bool) (*Result, error) {
	log := tracelog.Named("bind")
	res := &Result{
		Bindings:  map[string]any{},
		ArgvTable: map[string]string{},
		Taken:     map[int]bool{},
	}

	for _, d := range declarations {
		log.Debug("binding declaration", "binding", d.Binding, "kind", d.Kind, "required", d.Required)
		switch d.Kind {
		case decl.KindFlag:
			if err := bindFlag(d, idx, res); err != nil {
				return nil, err
			}
		case decl.KindScalar:
			if err := bindScalar(d, argv, idx, allowEmptyValues, res); err != nil {
				return nil, err
			}
		case decl.KindVector:
			if err := bindVector(d, argv, idx, allowEmptyValues, res); err != nil {
				return nil, err
			}
		case decl.KindEnum:
			if err := bindEnum(d, argv, idx, allowEmptyValues, res); err != nil {
				return nil, err
			}
		case decl.KindSwitch:
			if err := bindSwitch(d, idx, res); err != nil {
				return nil, err
			}
		}
	}
	log.Debug("bind complete", "bindings", res.Bindings)
	return res, nil
}

func bindFlag(d decl.Declaration, idx index.Index, res *Result) error {
	slots := occurrences(idx, d.Pattern)
	if len(slots) == 0 {
		res.Bindings[d.Binding] = d.BoolDefault
		return nil
	}
	for _, s := range slots {
		res.Taken[s-1] = true
	}
	res.Bindings[d.Binding] = !d.BoolDefault
	res.ArgvTable[d.Binding] = "!"
	return nil
}

func bindScalar(d decl.Declaration, argv []string, idx index.Index, allowEmpty bool, res *Result) error {
	slots := occurrences(idx, d.Pattern)
	alias := aliasLabel(d.Pattern)
	if len(slots) == 0 {
		if d.Required {
			return fmt.Errorf("%w: %s", text.ErrMissingRequired, fmt.Sprintf(text.MsgMissingRequiredOpt, d.Binding))
		}
		res.Bindings[d.Binding] = defaultForType(d)
		return nil
	}

	var last any
	for _, s := range slots {
		flagTok := s - 1
		res.Taken[flagTok] = true
		raw, resolvedIdx, dashEscaped, err := slotValue(argv, s, alias)
		if err != nil {
			return err
		}
		res.Taken[s] = true
		if dashEscaped {
			res.Taken[resolvedIdx] = true
		}
		v, err := coerce(d.ValueType, alias, raw)
		if err != nil {
			return err
		}
		last = v
	}
	res.Bindings[d.Binding] = last
	res.ArgvTable[d.Binding] = "!"

	if s, ok := last.(string); ok {
		if err := checkEmptyRequired(d.Binding, s, d.Required, allowEmpty); err != nil {
			return err
		}
	}
	return nil
}

func bindVector(d decl.Declaration, argv []string, idx index.Index, allowEmpty bool, res *Result) error {
	slots := occurrences(idx, d.Pattern)
	alias := aliasLabel(d.Pattern)
	if len(slots) == 0 {
		if d.Required {
			return fmt.Errorf("%w: %s", text.ErrMissingRequired, fmt.Sprintf(text.MsgMissingRequiredOpt, d.Binding))
		}
		res.Bindings[d.Binding] = emptyVector(d.ValueType)
		return nil
	}

	var raws []string
	for _, s := range slots {
		flagTok := s - 1
		res.Taken[flagTok] = true
		raw, resolvedIdx, dashEscaped, err := slotValue(argv, s, alias)
		if err != nil {
			return err
		}
		res.Taken[s] = true
		if dashEscaped {
			res.Taken[resolvedIdx] = true
		}
		raws = append(raws, raw)
	}

	values, err := coerceVector(d.ValueType, alias, raws)
	if err != nil {
		return err
	}
	res.Bindings[d.Binding] = values
	res.ArgvTable[d.Binding] = "!"
	return nil
}

// coerceVector coerces every raw element to the declaration's value type,
// building a concretely typed slice (rather than []any) so callers can
// type-assert it directly.
func coerceVector(vt decl.ValueType, alias string, raws []string) (any, error) {
	switch vt {
	case decl.TypeInt:
		out := make([]int64, 0, len(raws))
		for _, raw := range raws {
			v, err := coerce(vt, alias, raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(int64))
		}
		return out, nil
	case decl.TypeFloat, decl.TypeNum:
		out := make([]float64, 0, len(raws))
		for _, raw := range raws {
			v, err := coerce(vt, alias, raw)
			if err != nil {
				return nil, err
			}
			switch n := v.(type) {
			case int64:
				out = append(out, float64(n))
			case float64:
				out = append(out, n)
			}
		}
		return out, nil
	default:
		out := make([]string, 0, len(raws))
		out = append(out, raws...)
		return out, nil
	}
}

func bindEnum(d decl.Declaration, argv []string, idx index.Index, allowEmpty bool, res *Result) error {
	slots := occurrences(idx, d.Pattern)
	alias := aliasLabel(d.Pattern)
	if len(slots) == 0 {
		if d.Required {
			return fmt.Errorf("%w: %s", text.ErrMissingRequired, fmt.Sprintf(text.MsgMissingRequiredOpt, d.Binding))
		}
		res.Bindings[d.Binding] = d.EnumDefault()
		return nil
	}

	var last string
	for _, s := range slots {
		flagTok := s - 1
		res.Taken[flagTok] = true
		raw, resolvedIdx, dashEscaped, err := slotValue(argv, s, alias)
		if err != nil {
			return err
		}
		res.Taken[s] = true
		if dashEscaped {
			res.Taken[resolvedIdx] = true
		}
		last = raw
	}

	found := false
	for _, c := range d.Choices {
		if c == last {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", text.ErrInvalidChoice, fmt.Sprintf(text.MsgInvalidChoice, last, alias, strings.Join(d.Choices, ", ")))
	}

	res.Bindings[d.Binding] = last
	res.ArgvTable[d.Binding] = "!"
	return checkEmptyRequired(d.Binding, last, d.Required, allowEmpty)
}

func bindSwitch(d decl.Declaration, idx index.Index, res *Result) error {
	var winner *decl.Arm
	matched := false
	for i := range d.Arms {
		arm := d.Arms[i]
		var slots []int
		if arm.HasShort() {
			slots = append(slots, idx["-"+string(arm.Short)]...)
		}
		if arm.HasLong() {
			slots = append(slots, idx["--"+arm.Long]...)
		}
		if len(slots) == 0 {
			continue
		}
		matched = true
		for _, s := range slots {
			res.Taken[s-1] = true
		}
		if winner == nil {
			winner = &d.Arms[i]
		}
	}

	if !matched {
		if d.Required {
			return fmt.Errorf("%w: %s", text.ErrMissingRequired, fmt.Sprintf(text.MsgMissingRequiredSwtch, d.Binding))
		}
		res.Bindings[d.Binding] = d.SwitchDefault()
		return nil
	}

	res.Bindings[d.Binding] = winner.Value
	res.ArgvTable[d.Binding] = "!"
	return nil
}

func defaultForType(d decl.Declaration) any {
	if d.Default != nil {
		return d.Default
	}
	switch d.ValueType {
	case decl.TypeInt:
		return int64(0)
	case decl.TypeFloat, decl.TypeNum:
		return float64(0)
	default:
		return ""
	}
}

func emptyVector(vt decl.ValueType) any {
	switch vt {
	case decl.TypeInt:
		return []int64{}
	case decl.TypeFloat, decl.TypeNum:
		return []float64{}
	default:
		return []string{}
	}
}
