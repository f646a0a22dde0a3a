package web

import (
	"bytes"
	"strings"
	"testing"
)

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates() error = %v", err)
	}

	for _, name := range []string{"index.html", "gallery.html", "weather_history.html"} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tmpl.ExecuteTemplate(&buf, name, map[string]interface{}{"total_images": 0}); err != nil {
				t.Fatalf("ExecuteTemplate() error = %v", err)
			}
			if !strings.Contains(buf.String(), "<html") {
				t.Errorf("%s rendered without markup", name)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	if got := formatFloat(21.456, "°C"); got != "21.5°C" {
		t.Errorf("formatFloat() = %q", got)
	}
}
