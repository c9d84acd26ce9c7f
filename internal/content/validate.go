// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/util"
)

// FieldError describes one failed rule. Nested paths are dotted, e.g. "triggers.0.name".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// ValidationError is returned by Validate for a rejected record.
type ValidationError struct {
	ID     string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	if e.ID == "" {
		return "invalid record: " + strings.Join(parts, "; ")
	}
	return fmt.Sprintf("invalid record %q: %s", e.ID, strings.Join(parts, "; "))
}

// Fields returns the failing paths, mainly for assertions.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe.Path
	}
	return out
}

type validator struct {
	errs []FieldError
}

func (v *validator) add(path, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a canonical-shaped record and decodes it. A record is
// either valid or rejected with every failing field reported.
func Validate(raw model.RawRecord) (model.Blueprint, error) {
	v := &validator{}

	v.identifier(raw, "id")
	v.identifier(raw, "slug")
	v.requiredString(raw, "title", "Title is required")
	v.requiredString(raw, "content", "Content is required")
	v.author(raw["author"])
	v.enum(raw, "platform", true, func(s string) bool { _, ok := model.ParsePlatform(s); return ok }, platformNames())
	v.enum(raw, "type", true, func(s string) bool { _, ok := model.ParseBlueprintType(s); return ok }, "Tag, Rule, Snippet")
	v.enum(raw, "difficulty", false, func(s string) bool { _, ok := model.ParseDifficulty(s); return ok }, "Beginner, Intermediate, Advanced")
	v.enum(raw, "useCase", false, func(s string) bool { _, ok := model.ParseUseCase(s); return ok }, useCaseNames())

	for _, key := range []string{"description", "vendor", "vendorIcon", "createdAt", "updatedAt", "trigger", "condition", "tagType", "filePath"} {
		v.optionalString(raw, key)
	}
	if val, ok := raw["community_verified"]; ok && val != nil {
		if _, isBool := val.(bool); !isBool {
			v.add("community_verified", "Expected boolean")
		}
	}
	if val, ok := raw["executionOrder"]; ok && val != nil && !isNumber(val) {
		v.add("executionOrder", "Expected number")
	}
	if val, ok := raw["additionalConfig"]; ok && val != nil {
		if _, isMap := val.(map[string]any); !isMap {
			v.add("additionalConfig", "Expected object")
		}
	}
	if val, ok := raw["tags"]; ok && val != nil {
		v.stringList("tags", val)
	}

	v.objects(raw, "triggers", v.trigger)
	v.objects(raw, "events", func(p string, obj map[string]any) {
		v.objectString(p, obj, "name", true)
		v.objectString(p, obj, "type", true)
		v.objectString(p, obj, "eventName", false)
		v.objectString(p, obj, "description", false)
	})
	v.objects(raw, "conditions", func(p string, obj map[string]any) {
		v.objectString(p, obj, "condition", true)
		v.objectString(p, obj, "name", false)
		v.objectString(p, obj, "type", false)
		v.objectString(p, obj, "description", false)
	})
	v.objects(raw, "exceptions", func(p string, obj map[string]any) {
		v.objectString(p, obj, "condition", true)
		v.objectString(p, obj, "name", false)
		v.objectString(p, obj, "description", false)
	})

	id, _ := raw.String("id")
	if len(v.errs) > 0 {
		return model.Blueprint{}, &ValidationError{ID: id, Errors: v.errs}
	}

	var bp model.Blueprint
	data, err := json.Marshal(raw)
	if err == nil {
		err = json.Unmarshal(data, &bp)
	}
	if err != nil {
		return model.Blueprint{}, &ValidationError{ID: id, Errors: []FieldError{{Path: "", Message: err.Error()}}}
	}
	return bp, nil
}

func (v *validator) identifier(raw model.RawRecord, key string) {
	s, ok := raw[key].(string)
	switch {
	case raw[key] == nil:
		v.add(key, "Required")
	case !ok:
		v.add(key, "Expected string")
	case !util.IsValidIdentifier(s):
		v.add(key, "Must be lowercase alphanumeric with hyphens")
	}
}

func (v *validator) requiredString(raw model.RawRecord, key, msg string) {
	s, ok := raw[key].(string)
	switch {
	case raw[key] == nil:
		v.add(key, "%s", msg)
	case !ok:
		v.add(key, "Expected string")
	case strings.TrimSpace(s) == "":
		v.add(key, "%s", msg)
	}
}

func (v *validator) optionalString(raw model.RawRecord, key string) {
	if val, ok := raw[key]; ok && val != nil {
		if _, isString := val.(string); !isString {
			v.add(key, "Expected string")
		}
	}
}

func (v *validator) enum(raw model.RawRecord, key string, required bool, valid func(string) bool, options string) {
	val, ok := raw[key]
	if !ok || val == nil {
		if required {
			v.add(key, "Required")
		}
		return
	}
	s, isString := val.(string)
	if !isString {
		v.add(key, "Expected string")
		return
	}
	if !valid(s) {
		v.add(key, "Invalid value %q, expected one of: %s", s, options)
	}
}

func (v *validator) author(val any) {
	switch a := val.(type) {
	case nil:
		v.add("author", "Author is required")
	case string:
		if strings.TrimSpace(a) == "" {
			v.add("author", "Author is required")
		}
	case []any:
		if len(a) == 0 {
			v.add("author", "At least one author is required")
			return
		}
		v.stringList("author", a)
	case []string:
		if len(a) == 0 {
			v.add("author", "At least one author is required")
		}
		for i, s := range a {
			if strings.TrimSpace(s) == "" {
				v.add("author."+strconv.Itoa(i), "Must not be empty")
			}
		}
	default:
		v.add("author", "Expected string or array of strings")
	}
}

func (v *validator) stringList(key string, val any) {
	switch list := val.(type) {
	case []string:
		return
	case []any:
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				v.add(key+"."+strconv.Itoa(i), "Expected string")
			} else if key == "author" && strings.TrimSpace(s) == "" {
				v.add(key+"."+strconv.Itoa(i), "Must not be empty")
			}
		}
	default:
		v.add(key, "Expected array")
	}
}

// objects validates an optional array of objects under key.
func (v *validator) objects(raw model.RawRecord, key string, check func(path string, obj map[string]any)) {
	val, ok := raw[key]
	if !ok || val == nil {
		return
	}
	list, isList := val.([]any)
	if !isList {
		v.add(key, "Expected array")
		return
	}
	for i, item := range list {
		p := key + "." + strconv.Itoa(i)
		obj, isObj := item.(map[string]any)
		if !isObj {
			v.add(p, "Expected object")
			continue
		}
		check(p, obj)
	}
}

func (v *validator) trigger(p string, obj map[string]any) {
	v.objectString(p, obj, "name", true)
	v.objectString(p, obj, "type", true)
	for _, key := range []string{"description", "event", "eventName"} {
		v.objectString(p, obj, key, false)
	}
	val, ok := obj["conditions"]
	if !ok || val == nil {
		return
	}
	list, isList := val.([]any)
	if !isList {
		v.add(p+".conditions", "Expected array")
		return
	}
	for i, item := range list {
		cp := p + ".conditions." + strconv.Itoa(i)
		switch c := item.(type) {
		case string:
		case map[string]any:
			for _, key := range []string{"variable", "operator", "value", "condition", "description"} {
				v.objectString(cp, c, key, false)
			}
		default:
			v.add(cp, "Expected string or object")
		}
	}
}

func (v *validator) objectString(p string, obj map[string]any, key string, required bool) {
	val, ok := obj[key]
	if !ok || val == nil {
		if required {
			v.add(p+"."+key, "Required")
		}
		return
	}
	s, isString := val.(string)
	if !isString {
		v.add(p+"."+key, "Expected string")
		return
	}
	if required && s == "" {
		v.add(p+"."+key, "Must not be empty")
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, uint, uint64, json.Number:
		return true
	}
	return false
}

func platformNames() string {
	names := make([]string, 0, len(model.AllPlatforms()))
	for _, p := range model.AllPlatforms() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func useCaseNames() string {
	names := make([]string, 0, len(model.AllUseCases()))
	for _, u := range model.AllUseCases() {
		names = append(names, string(u))
	}
	return strings.Join(names, ", ")
}
