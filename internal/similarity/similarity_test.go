package similarity

import "testing"

func TestBigramJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "settings.json", b: "settings.json", want: 1.0},
		{name: "empty left", a: "", b: "config", want: 0.0},
		{name: "empty right", a: "config", b: "", want: 0.0},
		{name: "disjoint", a: "ab", b: "cd", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BigramJaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("BigramJaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBigramJaccard_Related(t *testing.T) {
	got := BigramJaccard("nonexistent.json", "settings.json")
	if got <= 0.0 || got >= 1.0 {
		t.Errorf("expected partial similarity, got %v", got)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "main.py", b: "main.py", want: 1.0},
		{name: "empty", a: "", b: "main.py", want: 0.0},
		{name: "one edit", a: "main.py", b: "mains.py", want: 1.0 - 1.0/8.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Levenshtein(tt.a, tt.b)
			if !close(got, tt.want) {
				t.Errorf("Levenshtein(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"config/settings.json", "config/nonexistent.json"},
		{"utils/helpers.py", "utils/helper.py"},
		{"a", "completely different"},
		{"", ""},
	}
	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Score(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestScore_RanksCloserHigher(t *testing.T) {
	target := "config/nonexistent.json"
	near := Score(target, "config/settings.json")
	far := Score(target, "src/deep/module.py")
	if near <= far {
		t.Errorf("expected %q to rank above %q: near=%v far=%v",
			"config/settings.json", "src/deep/module.py", near, far)
	}
	if near <= 0 {
		t.Errorf("expected positive similarity for related paths, got %v", near)
	}
}

func close(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
