package handlers

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"inkwell/internal/apierr"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"json array", `["go","testing"]`, []string{"go", "testing"}},
		{"comma string", `"a, b ,c"`, []string{"a", "b", "c"}},
		{"array with blanks", `["go","","  "]`, []string{"go"}},
		{"empty string", `""`, []string{}},
		{"trailing comma", `"one,two,"`, []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeTags(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("normalizeTags(%s): %v", tt.raw, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("tag[%d]: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeTagsAbsent(t *testing.T) {
	got, err := normalizeTags(nil)
	if err != nil {
		t.Fatalf("normalizeTags(nil): %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil list", got)
	}
}

func TestNormalizeTagsRejectsOtherTypes(t *testing.T) {
	for _, raw := range []string{`42`, `{"a":1}`, `[1,2]`} {
		if _, err := normalizeTags(json.RawMessage(raw)); err == nil {
			t.Errorf("normalizeTags(%s): expected error", raw)
		}
	}
}

func TestValidateTitle(t *testing.T) {
	if err := validateTitle("A Fine Title"); err != nil {
		t.Errorf("valid title rejected: %v", err)
	}

	var validation *apierr.ValidationError
	if err := validateTitle("   "); !errors.As(err, &validation) {
		t.Error("blank title must be a validation error")
	}
	if err := validateTitle(strings.Repeat("x", maxTitleLen)); err != nil {
		t.Errorf("title at limit rejected: %v", err)
	}
	if err := validateTitle(strings.Repeat("x", maxTitleLen+1)); !errors.As(err, &validation) {
		t.Error("over-limit title must be a validation error")
	}
}

func TestValidateExcerpt(t *testing.T) {
	if err := validateExcerpt(""); err != nil {
		t.Errorf("empty excerpt rejected: %v", err)
	}
	if err := validateExcerpt(strings.Repeat("x", maxExcerptLen)); err != nil {
		t.Errorf("excerpt at limit rejected: %v", err)
	}
	if err := validateExcerpt(strings.Repeat("x", maxExcerptLen+1)); err == nil {
		t.Error("over-limit excerpt accepted")
	}
}
