package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// builtinWordPools are the recall word lists shipped with the service, one
// per supported language tag. Deployments can override them with a YAML file.
var builtinWordPools = map[string][]string{
	"en": {"Apple", "Train", "Moon", "Garden", "Candle", "Bridge", "Star", "Window", "River", "Mirror", "Bottle"},
	"hi": {"सेब", "रेल", "चाँद", "बाग", "मोमबत्ती", "पुल", "तारा", "खिड़की", "नदी", "आईना", "बोतल"},
	"bn": {"আপেল", "ট্রেন", "চাঁদ", "উদ্যান", "মোমবাতি", "সেতু", "তারকা", "জানালা", "নদী", "আয়না", "বোতল"},
	"ta": {"ஆப்பிள்", "ரயில்", "நிலா", "தோட்டம்", "மெழுகுவர்த்தி", "பாலம்", "நட்சத்திரம்", "ஜன்னல்", "நதி", "கண்ணாடி", "பாட்டில்"},
	"te": {"సేపు", "రైలు", "చంద్రుడు", "తోట", "మొమబత్తి", "సేతు", "నక్షత్రం", "కిటికి", "నది", "అద్దం", "సీసా"},
	"kn": {"ಸೇಬು", "ರೈಲು", "ಚಂದ್ರ", "ತೋಟ", "ಮೆಣಬತ್ತಿ", "ಸೇತು", "ನಕ್ಷತ್ರ", "ಕಿಟಕೀ", "ನದಿ", "ಕನ್ನಡಿ", "ಸಿಸು"},
	"ml": {"ആപ്പിൾ", "ട്രെയ്ൻ", "ചന്ദ്രൻ", "തോട്ടം", "മെഴുകുതിരി", "പാലം", "നക്ഷത്രം", "ജാലകം", "നദി", "ക്കന്നാടി", "കുപ്പി"},
	"mr": {"सफरचंद", "रेल", "चंद्र", "बाग", "मेणबत्ती", "पूल", "तारा", "खिडकी", "नदी", "आरसा", "बाटली"},
	"gu": {"સફરજન", "રેલ", "ચંદ્ર", "બાગ", "મોમબત્તી", "પુલ", "તારો", "બારણું", "નદી", "અરીસો", "બોટલ"},
	"pa": {"ਸੇਬ", "ਰੇਲ", "ਚੰਦਰਮਾ", "ਬਾਗ", "ਮੋਮਬੱਤੀ", "ਪੁੱਲ", "ਤਾਰਾ", "ਖਿੜਕੀ", "ਨਦੀ", "ਸ਼ੀਸ਼ਾ", "ਬੋਤਲ"},
}

// LanguageLabels maps supported language tags to their display names.
var LanguageLabels = map[string]string{
	"en": "English",
	"hi": "हिन्दी",
	"bn": "বাংলা",
	"ta": "தமிழ்",
	"te": "తెలుగు",
	"kn": "ಕನ್ನಡ",
	"ml": "മലയാളം",
	"mr": "मराठी",
	"gu": "ગુજરાતી",
	"pa": "ਪੰਜਾਬੀ",
}

type wordPoolFile struct {
	Pools map[string][]string `yaml:"word_pools"`
}

// LoadWordPools reads a word pool override file. The English pool is
// mandatory since every unsupported language falls back to it, and each pool
// needs enough words for two disjoint recall lists.
func LoadWordPools(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word pool file: %w", err)
	}

	var file wordPoolFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal word pool YAML: %w", err)
	}

	if _, ok := file.Pools["en"]; !ok {
		return nil, fmt.Errorf("word pool file must define an 'en' pool")
	}
	for lang, words := range file.Pools {
		if len(words) < 10 {
			return nil, fmt.Errorf("word pool %q has %d words, need at least 10", lang, len(words))
		}
	}
	return file.Pools, nil
}
