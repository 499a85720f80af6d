package web

import (
	"bytes"
	"strings"
	"testing"
)

func TestTemplateFuncs(t *testing.T) {
	funcs := templateFuncs()
	for _, name := range []string{"default", "trunc", "statusText"} {
		if _, ok := funcs[name]; !ok {
			t.Errorf("template func %q missing", name)
		}
	}
}

func TestLoadTemplatesRendersPages(t *testing.T) {
	tmpl, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}

	longID := strings.Repeat("a", 100)
	var buf bytes.Buffer
	data := UpdatePageData{ItemID: longID, MaxLength: 255}
	if err := tmpl.Execute(&buf, "update.html", data); err != nil {
		t.Fatalf("Execute update.html: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "<code>"+strings.Repeat("a", 64)+"</code>") {
		t.Errorf("item id not truncated to 64 characters: %s", body)
	}
	if !strings.Contains(body, "<title>TODO List</title>") {
		t.Errorf("empty title did not fall back to default: %s", body)
	}

	buf.Reset()
	if err := tmpl.Execute(&buf, "error.html", ErrorPageData{StatusCode: 400, Error: "bad"}); err != nil {
		t.Fatalf("Execute error.html: %v", err)
	}
	if !strings.Contains(buf.String(), "400 Bad Request") {
		t.Errorf("status text missing from error page: %s", buf.String())
	}

	if err := tmpl.Execute(&buf, "missing.html", nil); err == nil {
		t.Error("expected error for unknown page")
	}
}
