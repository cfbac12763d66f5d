package match

import "testing"

func TestNameFromScoreline(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/videos/Arsenal 2 - 1 Chelsea.mp4", "Arsenal_vs_Chelsea_2-1"},
		{"Manchester United 3-0 Norwich City.mkv", "Manchester_United_vs_Norwich_City_3-0"},
		{"FULL MATCH Portugal 3 – 3 Spain.mp4", "Portugal_vs_Spain_3-3"},
	}
	for _, c := range cases {
		if got := Name(c.path); got != c.want {
			t.Fatalf("Name(%q) = %q, expected %q", c.path, got, c.want)
		}
	}
}

func TestNameFallback(t *testing.T) {
	got := Name("/videos/highlights (second half)!.mp4")
	if got != "highlights_second_half" {
		t.Fatalf("fallback name = %q", got)
	}
}

func TestNameFallbackTruncates(t *testing.T) {
	long := "/videos/" + string(make([]byte, 0, 0)) + "averyveryveryveryveryveryveryveryveryverylongfilenameindeed.mp4"
	if got := Name(long); len(got) > 50 {
		t.Fatalf("fallback name too long: %d chars", len(got))
	}
}

func TestNameEmptyStem(t *testing.T) {
	if got := Name("§§§.mp4"); got != "match" {
		t.Fatalf("expected generic fallback, got %q", got)
	}
}
