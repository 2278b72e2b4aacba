package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

type envStatus struct {
	Root          string `json:"root"`
	SetupComplete bool   `json:"setup_complete"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "table", want: FormatTable},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)

	data := envStatus{Root: "/tmp/env", SetupComplete: true}
	if err := p.Print(context.Background(), data); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got["root"] != "/tmp/env" || got["setup_complete"] != true {
		t.Errorf("Print() JSON = %v", got)
	}
}

func TestPrintCompactJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)

	ctx := WithCompactJSON(context.Background(), true)
	if err := p.Print(ctx, envStatus{Root: "/tmp/env"}); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if strings.Contains(strings.TrimSpace(buf.String()), "\n") {
		t.Errorf("compact JSON spans multiple lines: %q", buf.String())
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatYAML)

	if err := p.Print(context.Background(), map[string]string{"root": "/tmp/env"}); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if !strings.Contains(buf.String(), "root: /tmp/env") {
		t.Errorf("Print() YAML = %q", buf.String())
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable)

	data := []envStatus{
		{Root: "/a", SetupComplete: true},
		{Root: "/b", SetupComplete: false},
	}
	if err := p.Print(context.Background(), data); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"root", "setup_complete", "/a", "/b"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() table = %q, want %q present", out, want)
		}
	}
}

func TestPrintTableRejectsScalar(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, FormatTable)
	if err := p.Print(context.Background(), 42); err == nil {
		t.Error("Print() accepted a scalar for table output, want error")
	}
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)

	if err := p.Print(context.Background(), envStatus{Root: "/tmp/env", SetupComplete: true}); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "root:") || !strings.Contains(out, "/tmp/env") {
		t.Errorf("Print() text = %q", out)
	}
}

func TestPrintNil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)
	if err := p.Print(context.Background(), nil); err != nil {
		t.Fatalf("Print(nil) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Print(nil) wrote %q, want nothing", buf.String())
	}
}
