package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPrintWithQuery(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)

	data := map[string]interface{}{
		"components": []map[string]string{
			{"name": "analyses", "ref": "v0.19.2"},
			{"name": "assets", "ref": "v0.19.0"},
		},
	}

	ctx := WithQuery(context.Background(), ".components[].name")
	if err := p.Print(ctx, data); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "analyses") || !strings.Contains(out, "assets") {
		t.Errorf("Print() with query = %q, want component names", out)
	}
	if strings.Contains(out, "v0.19.2") {
		t.Errorf("Print() with query = %q, refs must be filtered out", out)
	}
}

func TestPrintWithInvalidQuery(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, FormatJSON)
	ctx := WithQuery(context.Background(), ".[unbalanced")
	if err := p.Print(ctx, map[string]string{}); err == nil {
		t.Error("Print() accepted an invalid query, want error")
	}
}

func TestPrintWithJSONPath(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)

	data := map[string]interface{}{
		"components": []map[string]string{
			{"name": "analyses"},
		},
	}

	ctx := WithJSONPath(context.Background(), "$.components[0].name")
	if err := p.Print(ctx, data); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if !strings.Contains(buf.String(), "analyses") {
		t.Errorf("Print() with jsonpath = %q, want %q", buf.String(), "analyses")
	}
}

func TestPrintWithInvalidJSONPath(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, FormatJSON)
	ctx := WithJSONPath(context.Background(), "$.missing.deeply[3]")
	if err := p.Print(ctx, map[string]string{"a": "b"}); err == nil {
		t.Error("Print() accepted an unresolvable jsonpath, want error")
	}
}

func TestRunQueryScalarResult(t *testing.T) {
	results, err := runQuery(".count", map[string]int{"count": 3})
	if err != nil {
		t.Fatalf("runQuery() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("runQuery() returned %d results, want 1", len(results))
	}
	if n, ok := results[0].(float64); !ok || n != 3 {
		t.Errorf("runQuery() result = %v (%T), want 3", results[0], results[0])
	}
}
