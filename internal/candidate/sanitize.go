package candidate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"gorm.io/datatypes"

	"jobbyResume/internal/database"
)

const nul = "\x00"

var escapedNUL = []byte(`\u0000`)

// StripNUL 递归移除字符串、map 与切片中的 NUL 字符，其他值原样返回。
func StripNUL(v any) any {
	switch x := v.(type) {
	case string:
		return strings.ReplaceAll(x, nul, "")
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[strings.ReplaceAll(k, nul, "")] = StripNUL(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = StripNUL(val)
		}
		return out
	default:
		return v
	}
}

// stripJSON 清理一段 JSON 文本中的 NUL；不含 NUL 时保持原字节不变。
func stripJSON(raw datatypes.JSON) (datatypes.JSON, error) {
	if len(raw) == 0 || (!bytes.Contains(raw, escapedNUL) && !bytes.Contains(raw, []byte(nul))) {
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(bytes.ReplaceAll(raw, []byte(nul), nil)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json column: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(StripNUL(v)); err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return datatypes.JSON(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

var jsonColumnType = reflect.TypeOf(datatypes.JSON(nil))

// sanitizeRecord 原地清理记录中全部字符串列与 JSON 列。
func sanitizeRecord(rec *database.CandidateResume) error {
	v := reflect.ValueOf(rec).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch {
		case field.Kind() == reflect.String:
			field.SetString(strings.ReplaceAll(field.String(), nul, ""))
		case field.Type() == jsonColumnType:
			cleaned, err := stripJSON(field.Interface().(datatypes.JSON))
			if err != nil {
				return fmt.Errorf("%s: %w", t.Field(i).Name, err)
			}
			field.Set(reflect.ValueOf(cleaned))
		}
	}
	return nil
}
