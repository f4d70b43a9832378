package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound    = errors.New("resource not found")
	ErrInvalidID   = errors.New("invalid record id")
	ErrStoreBroken = errors.New("record store unreadable")
	// ErrInvalidPatch means the merged record no longer fits its type,
	// e.g. a string where a list is expected.
	ErrInvalidPatch = errors.New("patch does not fit the record")
)

// RecordID is a caller-supplied identifier. Clients send either a JSON
// string or a JSON number (Date.now()); both are compared as strings and
// written back in the form they arrived in.
type RecordID struct {
	value   string
	numeric bool
}

func NewRecordID(s string) RecordID {
	return RecordID{value: s}
}

func (id RecordID) String() string { return id.value }

func (id RecordID) IsZero() bool { return id.value == "" }

func (id RecordID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*id = RecordID{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RecordID{value: s}
	default:
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&n); err != nil {
			return ErrInvalidID
		}
		*id = RecordID{value: n.String(), numeric: true}
	}
	return nil
}

// Members holds a record's JSON members exactly as they were received.
// Typed fields are a view over them: on encode, a typed field that has a
// value replaces its member and every other member is written back as is,
// so empty strings, nulls, empty arrays and unknown keys survive storage.
type Members map[string]json.RawMessage

// Patch is a partial record: present keys overwrite, absent keys are kept.
type Patch map[string]json.RawMessage

// Has reports whether key is part of the patch.
func (p Patch) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Without returns a copy of the patch minus the given keys.
func (p Patch) Without(keys ...string) Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// String decodes a string member of the patch.
func (p Patch) String(key string) (string, bool) {
	raw, ok := p[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ApplyPatch shallow-merges patch onto current and decodes the result into
// a fresh value of the same type.
func ApplyPatch[T any](current T, patch Patch) (T, error) {
	var merged T
	raw, err := json.Marshal(current)
	if err != nil {
		return merged, err
	}
	members := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &members); err != nil {
		return merged, err
	}
	for k, v := range patch {
		members[k] = v
	}
	raw, err = json.Marshal(members)
	if err != nil {
		return merged, err
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return merged, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return merged, nil
}

// decodeMembers decodes data into fields (a pointer to a struct without
// custom JSON methods) and returns every member of data.
func decodeMembers(data []byte, fields any) (Members, error) {
	if err := json.Unmarshal(data, fields); err != nil {
		return nil, err
	}
	var members Members
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// encodeMembers encodes fields and folds raw in; fields that encode to a
// value win over the raw member of the same name.
func encodeMembers(fields any, raw Members) ([]byte, error) {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return encoded, nil
	}
	members := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		members[k] = v
	}
	typed := map[string]json.RawMessage{}
	if err := json.Unmarshal(encoded, &typed); err != nil {
		return nil, err
	}
	for k, v := range typed {
		members[k] = v
	}
	return json.Marshal(members)
}
