package trace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev as one line; FormatAuto renders text.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(ev)
	}
	return appendText(ev)
}

type jsonEvent struct {
	At        string            `json:"at"`
	Seq       uint64            `json:"seq"`
	Kind      string            `json:"kind"`
	Scope     string            `json:"scope"`
	Span      uint64            `json:"span,omitempty"`
	Parent    uint64            `json:"parent,omitempty"`
	Name      string            `json:"name"`
	Detail    string            `json:"detail,omitempty"`
	ElapsedUS int64             `json:"elapsed_us,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

func appendJSON(ev *Event) []byte {
	je := jsonEvent{
		At:        ev.At.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		Span:      ev.Span,
		Parent:    ev.Parent,
		Name:      ev.Name,
		Detail:    ev.Detail,
		ElapsedUS: ev.Elapsed.Microseconds(),
	}
	if len(ev.Attrs) > 0 {
		je.Attrs = make(map[string]string, len(ev.Attrs))
		for _, a := range ev.Attrs {
			je.Attrs[a.Key] = a.Value
		}
	}
	data, err := json.Marshal(je)
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// appendText renders "15:04:05.000000 #span <indent>> name detail k=v 1.2ms".
// Nested scopes are indented so a file's work reads as a tree.
func appendText(ev *Event) []byte {
	b := make([]byte, 0, 96)
	b = ev.At.AppendFormat(b, "15:04:05.000000")
	b = append(b, ' ')
	if ev.Span != 0 {
		b = append(b, '#')
		b = strconv.AppendUint(b, ev.Span, 10)
		b = append(b, ' ')
	}
	for range int(ev.Scope) - int(ScopeRun) {
		b = append(b, "  "...)
	}
	switch ev.Kind {
	case KindBegin:
		b = append(b, "> "...)
	case KindEnd:
		b = append(b, "< "...)
	case KindPoint:
		b = append(b, "* "...)
	case KindTick:
		b = append(b, "~ "...)
	}
	b = append(b, ev.Name...)
	if ev.Detail != "" {
		b = append(b, ' ')
		b = append(b, ev.Detail...)
	}
	for _, a := range ev.Attrs {
		b = append(b, ' ')
		b = append(b, a.Key...)
		b = append(b, '=')
		b = append(b, a.Value...)
	}
	if ev.Kind == KindEnd {
		b = append(b, ' ')
		b = append(b, ev.Elapsed.String()...)
	}
	return append(b, '\n')
}
