package i18n

import (
	"encoding/json"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		field  any
		locale string
		want   string
	}{
		{name: "requested locale present", field: Localized(map[string]string{"en": "A", "nl": "B"}), locale: "nl", want: "B"},
		{name: "falls back to default", field: Localized(map[string]string{"en": "A"}), locale: "nl", want: "A"},
		{name: "empty value falls back", field: Localized(map[string]string{"en": "A", "nl": ""}), locale: "nl", want: "A"},
		{name: "absent field", field: nil, locale: "nl", want: ""},
		{name: "plain text ignores locale", field: Plain("plain"), locale: "nl", want: "plain"},
		{name: "raw string ignores locale", field: "plain", locale: "nl", want: "plain"},
		{name: "neither locale present", field: Localized(map[string]string{"de": "X"}), locale: "nl", want: ""},
		{name: "unsupported value", field: 42.0, locale: "en", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.field, tt.locale, "en"); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetLocalized(t *testing.T) {
	t.Run("localized keeps other locales", func(t *testing.T) {
		got := SetLocalized(Localized(map[string]string{"en": "A", "nl": "B"}), "nl", "C")
		want := Localized(map[string]string{"en": "A", "nl": "C"})
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got.Locales(), want.Locales())
		}
	})

	t.Run("plain is overwritten and stays plain", func(t *testing.T) {
		got := SetLocalized(Plain("old"), "nl", "new")
		if got.IsLocalized() {
			t.Fatal("plain field must not upgrade to localized")
		}
		if got.String() != "new" {
			t.Errorf("got %q, want %q", got.String(), "new")
		}
	})

	t.Run("absent becomes plain", func(t *testing.T) {
		got := SetLocalized(nil, "en", "x")
		if got.IsLocalized() || got.String() != "x" {
			t.Errorf("got %#v", got)
		}
	})

	t.Run("original is not mutated", func(t *testing.T) {
		orig := Localized(map[string]string{"en": "A"})
		_ = orig.Set("en", "B")
		if v, _ := orig.Get("en"); v != "A" {
			t.Errorf("original changed to %q", v)
		}
	})
}

func TestBackFill(t *testing.T) {
	tests := []struct {
		name    string
		in      Text
		changed bool
		want    Text
	}{
		{
			name:    "copies default",
			in:      Localized(map[string]string{"en": "Home"}),
			changed: true,
			want:    Localized(map[string]string{"en": "Home", "nl": "Home"}),
		},
		{
			name: "existing entry wins",
			in:   Localized(map[string]string{"en": "Home", "nl": "Thuis"}),
			want: Localized(map[string]string{"en": "Home", "nl": "Thuis"}),
		},
		{
			name: "no default entry",
			in:   Localized(map[string]string{"de": "Heim"}),
			want: Localized(map[string]string{"de": "Heim"}),
		},
		{
			name: "plain untouched",
			in:   Plain("x"),
			want: Plain("x"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.in.BackFill("nl", "en")
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTextJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "plain", in: `"hello"`},
		{name: "localized", in: `{"en":"Hello","nl":"Hallo"}`},
		{name: "empty object", in: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txt Text
			if err := json.Unmarshal([]byte(tt.in), &txt); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			out, err := json.Marshal(txt)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(out) != tt.in {
				t.Errorf("round trip = %s, want %s", out, tt.in)
			}
		})
	}

	t.Run("rejects numbers", func(t *testing.T) {
		var txt Text
		if err := json.Unmarshal([]byte(`12`), &txt); err == nil {
			t.Error("expected error for a number")
		}
	})
}

func TestCatalog(t *testing.T) {
	if !InCatalog("nl") || InCatalog("xx") {
		t.Error("InCatalog mismatch")
	}
	if DisplayName("de") != "Deutsch" || DisplayName("xx") != "xx" {
		t.Error("DisplayName mismatch")
	}
	avail := Available([]string{"en", "nl"})
	if len(avail) != len(Catalog)-2 {
		t.Errorf("Available returned %d languages", len(avail))
	}
	for _, code := range []string{"en", "pt-BR"} {
		if !IsLocaleCode(code) {
			t.Errorf("IsLocaleCode(%q) = false", code)
		}
	}
	for _, code := range []string{"url", "label", "EN", ""} {
		if IsLocaleCode(code) {
			t.Errorf("IsLocaleCode(%q) = true", code)
		}
	}

	catalogTests := []struct {
		code string
		want bool
	}{
		{"nl", true},
		{"pt-BR", true},
		{"id", false},
		{"to", false},
		{"xx-XX", false},
		{"url", false},
	}
	for _, tt := range catalogTests {
		if got := IsCatalogLocale(tt.code); got != tt.want {
			t.Errorf("IsCatalogLocale(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
