package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/larriantoniy/alexa_ctl/internal/domain"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func writeResult(w io.Writer, res *domain.Result, format string) error {
	switch res.Kind {
	case domain.ResultLines:
		for _, line := range res.Lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	case domain.ResultText:
		_, err := fmt.Fprintln(w, strings.TrimRight(res.Text, "\n"))
		return err
	}

	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plain(res.JSON)); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(res.JSON)
}

// plain переводит json.Number и устройства в обычные значения,
// иначе yaml выводит числа строками в кавычках.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = plain(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plain(val)
		}
		return out
	case []domain.Device:
		out := make([]any, len(t))
		for i, d := range t {
			out[i] = plain(d)
		}
		return out
	case domain.Device:
		attrs := make(map[string]any)
		for _, key := range []string{"accountName", "deviceType", "serialNumber", "deviceOwnerCustomerId"} {
			if val, ok := t.Attribute(key); ok {
				attrs[key] = val
			}
		}
		for k, val := range t.Attributes {
			attrs[k] = val
		}
		return plain(attrs)
	default:
		return v
	}
}
