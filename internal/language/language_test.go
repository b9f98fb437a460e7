package language

import "testing"

func TestToISO2(t *testing.T) {
	cases := map[string]string{
		"en":        "en",
		"EN":        "en",
		" eng ":     "en",
		"English":   "en",
		"fre":       "fr",
		"fra":       "fr",
		"Mandarin":  "zh",
		"xx":        "xx",
		"klingon":   "",
		"":          "",
		"   ":       "",
		"español":   "es",
		"ukrainian": "uk",
	}
	for in, want := range cases {
		if got := ToISO2(in); got != want {
			t.Errorf("ToISO2(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"en":  "English",
		"ger": "German",
		"":    "auto-detect",
		"xx":  "XX",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}
