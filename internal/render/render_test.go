package render_test

import (
	"strings"
	"testing"

	"github.com/yourorg/releasectl/internal/render"
)

func TestTable(t *testing.T) {
	var buf strings.Builder

	err := render.Table(&buf,
		[]string{"Repo", "Tag"},
		[][]string{
			{"oe-core", "v8.3.0"},
			{"buildroot", render.NoneCell()},
		},
	)
	if err != nil {
		t.Fatalf("Table returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Repo", "Tag", "oe-core", "v8.3.0", "buildroot", "None"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
}

func TestTitle(t *testing.T) {
	var buf strings.Builder
	if err := render.Title(&buf, "Latest Tags Summary"); err != nil {
		t.Fatalf("Title returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "Latest Tags Summary") {
		t.Fatalf("title text missing: %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf strings.Builder
	if err := render.JSON(&buf, map[string]string{"robot": "Flex"}); err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "\"robot\": \"Flex\"") {
		t.Fatalf("json output = %q", buf.String())
	}
}
