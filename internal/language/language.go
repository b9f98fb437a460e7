package language

import "strings"

type entry struct {
	iso2 string
	name string
	// aliases are ISO 639-2 codes (both B and T forms) and lowercase names.
	aliases []string
}

var languages = []entry{
	{"en", "English", []string{"eng", "english"}},
	{"es", "Spanish", []string{"spa", "spanish", "espanol", "español"}},
	{"fr", "French", []string{"fra", "fre", "french"}},
	{"de", "German", []string{"deu", "ger", "german"}},
	{"it", "Italian", []string{"ita", "italian"}},
	{"pt", "Portuguese", []string{"por", "portuguese"}},
	{"ja", "Japanese", []string{"jpn", "japanese"}},
	{"ko", "Korean", []string{"kor", "korean"}},
	{"zh", "Chinese", []string{"zho", "chi", "chinese", "mandarin"}},
	{"ru", "Russian", []string{"rus", "russian"}},
	{"ar", "Arabic", []string{"ara", "arabic"}},
	{"hi", "Hindi", []string{"hin", "hindi"}},
	{"nl", "Dutch", []string{"nld", "dut", "dutch"}},
	{"pl", "Polish", []string{"pol", "polish"}},
	{"sv", "Swedish", []string{"swe", "swedish"}},
	{"tr", "Turkish", []string{"tur", "turkish"}},
	{"uk", "Ukrainian", []string{"ukr", "ukrainian"}},
	{"vi", "Vietnamese", []string{"vie", "vietnamese"}},
	{"id", "Indonesian", []string{"ind", "indonesian"}},
}

var index = func() map[string]*entry {
	m := make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		m[e.iso2] = e
		for _, alias := range e.aliases {
			m[alias] = e
		}
	}
	return m
}()

// ToISO2 converts a recognized code or English name to ISO 639-1. Unknown
// two-letter input passes through; anything else yields "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e, ok := index[code]; ok {
		return e.iso2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns the English name for a code, "auto-detect" for blank
// input, or the uppercased code when unknown.
func DisplayName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "auto-detect"
	}
	if e, ok := index[code]; ok {
		return e.name
	}
	return strings.ToUpper(code)
}
