package langtext

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Héllo, Wörld!", "hello world"},
		{"  café  au   lait ", "cafe au lait"},
		{"naïve", "naive"},
		{"DON'T", "dont"},
		{"", ""},
		{"...", ""},
	}
	for _, tc := range tests {
		if got := NormalizeText(tc.in); got != tc.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("bonjour", "bonjour"); got != 1 {
		t.Fatalf("identical strings should score 1, got %v", got)
	}
	if got := Similarity("", ""); got != 1 {
		t.Fatalf("two empty strings should score 1, got %v", got)
	}
	if got := Similarity("bonjour", "binjour"); got < 0.8 {
		t.Fatalf("one edit in seven runes should stay above 0.8, got %v", got)
	}
	if got := Similarity("cat", "dog"); got != 0 {
		t.Fatalf("disjoint strings should score 0, got %v", got)
	}
}

func TestIsSimilar(t *testing.T) {
	if !IsSimilar("Café", "cafe", 0) {
		t.Error("accent and case differences should match exactly after normalization")
	}
	if !IsSimilar("bonjour", "bonjoure", 0) {
		t.Error("a single trailing letter should count as a spelling slip")
	}
	if IsSimilar("hello", "goodbye", 0) {
		t.Error("unrelated words should not match")
	}
	if IsSimilar("abcd", "abxy", 0.9) {
		t.Error("a stricter threshold should reject two edits in four runes")
	}
}

func TestIsValidTag(t *testing.T) {
	valid := []string{"en", "fr", "zh", "en-US", "fr-CA", "zh-CN", "yue"}
	for _, tag := range valid {
		if !IsValidTag(tag) {
			t.Errorf("expected %q to be valid", tag)
		}
	}
	invalid := []string{"", "e", "english", "en_US", "123"}
	for _, tag := range invalid {
		if IsValidTag(tag) {
			t.Errorf("expected %q to be invalid", tag)
		}
	}
}

func TestBaseCode(t *testing.T) {
	if got := BaseCode("fr-CA"); got != "fr" {
		t.Errorf("BaseCode(fr-CA) = %q", got)
	}
	if got := BaseCode("en"); got != "en" {
		t.Errorf("BaseCode(en) = %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("fr"); got != "French" {
		t.Errorf("DisplayName(fr) = %q", got)
	}
	if got := DisplayName("xx"); got != "xx" {
		t.Errorf("unknown tags should pass through, got %q", got)
	}
}
