package models

import (
	"encoding/json"
	"reflect"
	"strings"
)

// jsonKeys lists the JSON names of v's struct fields.
func jsonKeys(v any) map[string]struct{} {
	keys := make(map[string]struct{})
	t := reflect.TypeOf(v)
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys
}

// marshalFlat encodes base and adds every extra field whose name does not
// collide with a base key.
func marshalFlat(base any, extra Extra, baseKeys map[string]struct{}) ([]byte, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	if len(extra.Values) == 0 && len(extra.Lists) == 0 {
		return raw, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	for k, v := range extra.Values {
		if _, reserved := baseKeys[k]; reserved {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		obj[k] = b
	}
	for k, v := range extra.Lists {
		if _, reserved := baseKeys[k]; reserved {
			continue
		}
		if v == nil {
			v = []string{}
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		obj[k] = b
	}
	return json.Marshal(obj)
}

// unmarshalExtra collects the non-base keys of a JSON object. Strings become
// Values, string arrays become Lists, anything else is dropped.
func unmarshalExtra(data []byte, baseKeys map[string]struct{}) (Extra, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return Extra{}, err
	}

	var extra Extra
	for k, raw := range obj {
		if _, reserved := baseKeys[k]; reserved {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			extra.SetValue(k, s)
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			extra.SetList(k, list)
		}
	}
	return extra, nil
}
