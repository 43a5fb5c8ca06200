// Package format implements the response formatter of spec.md §4.7: it
// turns a tool's JSON-shaped envelope (or a plain string) into the
// plain-text reply the Telegram transport sends, since the transport's
// rich-markup path is unreliable under the plain-text fallback this core
// targets.
package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

var acronyms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"api":  "API",
	"ui":   "UI",
	"uuid": "UUID",
	"http": "HTTP",
	"html": "HTML",
}

const maxListItems = 5

// Reply renders raw — either a tool envelope's JSON text or an already
// plain-text reply — into the transport-safe plain string (spec.md §4.7).
func Reply(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return raw
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		// JSON-shaped but not an object (e.g. a bare array or number) —
		// not what spec.md §4.7 calls "JSON-shaped object"; pass through.
		return raw
	}

	return renderObject(obj)
}

func renderObject(obj map[string]any) string {
	if status, _ := obj["status"].(string); status == "error" {
		return "❌ " + valueString(obj["message"])
	}

	if status, _ := obj["status"].(string); status == "success" {
		if data, ok := obj["data"]; ok {
			if dataObj, ok := data.(map[string]any); ok {
				return renderObject(dataObj)
			}
			return renderValue(data)
		}
	}

	var b strings.Builder
	_, hasMessage := obj["message"]
	if msg, ok := obj["message"]; ok {
		b.WriteString(valueString(msg))
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		if k == "message" || k == "status" || k == "data" || strings.HasPrefix(k, "_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		switch {
		case i == 0 && hasMessage:
			b.WriteString("\n\n")
		case b.Len() > 0:
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s: %s", deSnakeAndUpsize(k), renderValue(obj[k])))
	}

	if b.Len() == 0 {
		return "Not provided"
	}
	return b.String()
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "Not provided"
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case string:
		if val == "" {
			return "Not provided"
		}
		return val
	case []any:
		return renderList(val)
	case map[string]any:
		return renderObject(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func renderList(items []any) string {
	if len(items) == 0 {
		return "Not provided"
	}
	n := len(items)
	truncated := false
	if n > maxListItems {
		n = maxListItems
		truncated = true
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(fmt.Sprintf("- %s\n", renderValue(items[i])))
	}
	if truncated {
		b.WriteString("…")
	}
	return strings.TrimRight(b.String(), "\n")
}

func valueString(v any) string {
	s, _ := v.(string)
	return s
}

// deSnakeAndUpsize converts "team_id" -> "Team ID", upsizing known
// acronyms per spec.md §4.7's fixed list.
func deSnakeAndUpsize(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		lower := strings.ToLower(p)
		if upper, ok := acronyms[lower]; ok {
			parts[i] = upper
			continue
		}
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
