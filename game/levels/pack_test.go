package levels

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const testPack = "Mini starter levels\r\nWritten for tests\r\n\r\n" +
	"#####\r\n#@$.#\r\n#####\r\nTitle: One\r\nAuthor: Ann\r\nDate: 2019-06-16\r\n\r\n" +
	"-#####\n-#--*#\n-#-.-#\n##-$-#\n#-@-##\n#####\nTwo is harder\nTitle: Two\n\n" +
	"Trailing notes without a map\n\n" +
	"#####\n#$.-#\n#####\nTitle: No player\n\n" +
	"#####\n#@*.#\n#####\nName: Three\nDate: someday\n"

func TestParsePack(t *testing.T) {
	pack, warnings, err := ParsePack("mini", strings.NewReader(testPack))
	if err != nil {
		t.Fatalf("ParsePack failed: %v", err)
	}

	if pack.Description != "Mini starter levels\nWritten for tests" {
		t.Errorf("Unexpected description %q", pack.Description)
	}
	if len(pack.Levels) != 3 {
		t.Fatalf("Expected 3 levels, got %d", len(pack.Levels))
	}

	one := pack.Levels[0]
	if one.ID != "mini/1" || one.Index != 1 || one.Pack != "mini" {
		t.Errorf("Unexpected identity %s %d %s", one.ID, one.Index, one.Pack)
	}
	if one.Name != "One" || one.Author != "Ann" {
		t.Errorf("Unexpected headers %+v", one)
	}
	if one.Map != "#####\n#@$.#\n#####\n" {
		t.Errorf("Unexpected map %q", one.Map)
	}
	if one.Date == nil || one.Date.Format("2006-01-02") != "2019-06-16" {
		t.Errorf("Unexpected date %v", one.Date)
	}

	two := pack.Levels[1]
	if two.Name != "Two" || two.Description != "Two is harder" {
		t.Errorf("Expected comment to become description, got %+v", two)
	}

	three := pack.Levels[2]
	if three.ID != "mini/3" || three.Name != "Three" || three.Date != nil {
		t.Errorf("Unexpected third level %+v", three)
	}

	if len(warnings) != 3 {
		t.Fatalf("Expected 3 warnings, got %v", warnings)
	}
	if warnings[0].Block != 4 || !strings.Contains(warnings[0].Message, "no map") {
		t.Errorf("Unexpected warning %s", warnings[0])
	}
	if warnings[1].Block != 5 || !strings.Contains(warnings[1].Message, "bad map") {
		t.Errorf("Unexpected warning %s", warnings[1])
	}
	if !strings.Contains(warnings[2].String(), "someday") {
		t.Errorf("Unexpected warning %s", warnings[2])
	}
}

func TestParsePack_Empty(t *testing.T) {
	pack, warnings, err := ParsePack("empty", strings.NewReader("Only words here\n"))
	if err != nil {
		t.Fatalf("ParsePack failed: %v", err)
	}
	if len(pack.Levels) != 0 || len(warnings) != 0 {
		t.Errorf("Expected no levels and no warnings, got %d, %v", len(pack.Levels), warnings)
	}
	if pack.Description != "Only words here" {
		t.Errorf("Unexpected description %q", pack.Description)
	}
}

func TestParsePack_HashDescription(t *testing.T) {
	text := "# Microban pack\nby someone\n\nA set of small levels.\n\n" +
		"#####\n#@$.#\n#####\nTitle: One\n\n" +
		"# stray heading\n"

	pack, warnings, err := ParsePack("micro", strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParsePack failed: %v", err)
	}

	if pack.Description != "# Microban pack\nby someone\nA set of small levels." {
		t.Errorf("Unexpected description %q", pack.Description)
	}
	if len(pack.Levels) != 1 || pack.Levels[0].ID != "micro/1" || pack.Levels[0].Name != "One" {
		t.Fatalf("Expected the single level micro/1, got %+v", pack.Levels)
	}
	if len(warnings) != 1 || warnings[0].Block != 4 || !strings.Contains(warnings[0].Message, "bad map") {
		t.Errorf("Expected only the heading after the level to be skipped, got %v", warnings)
	}
}

func TestPack_Level(t *testing.T) {
	pack, _, _ := ParsePack("mini", strings.NewReader(testPack))

	level, err := pack.Level(2)
	if err != nil || level.Name != "Two" {
		t.Errorf("Expected level Two, got %v, %v", level, err)
	}
	for _, index := range []int{0, 4, -1} {
		if _, err := pack.Level(index); !errors.Is(err, ErrLevelNotFound) {
			t.Errorf("Level(%d): expected not found, got %v", index, err)
		}
	}
}

func TestWritePack_RoundTrip(t *testing.T) {
	pack, _, _ := ParsePack("mini", strings.NewReader(testPack))

	var buf bytes.Buffer
	if err := WritePack(&buf, pack); err != nil {
		t.Fatalf("WritePack failed: %v", err)
	}

	reread, warnings, err := ParsePack("mini", &buf)
	if err != nil {
		t.Fatalf("ParsePack failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected clean output, got warnings %v", warnings)
	}
	if reread.Description != pack.Description {
		t.Errorf("Description changed: %q", reread.Description)
	}
	if len(reread.Levels) != len(pack.Levels) {
		t.Fatalf("Expected %d levels, got %d", len(pack.Levels), len(reread.Levels))
	}
	for i, l := range pack.Levels {
		r := reread.Levels[i]
		if r.Name != l.Name || r.Author != l.Author || r.Description != l.Description || r.Map != l.Map {
			t.Errorf("Level %d changed:\n%+v\n%+v", i+1, l, r)
		}
		if (r.Date == nil) != (l.Date == nil) || (r.Date != nil && !r.Date.Equal(*l.Date)) {
			t.Errorf("Level %d date changed: %v %v", i+1, l.Date, r.Date)
		}
	}
}

func TestParseLevelID(t *testing.T) {
	tests := []struct {
		id    string
		pack  string
		index int
		ok    bool
	}{
		{"mini/3", "mini", 3, true},
		{"mini", "mini", 1, true},
		{" mini/1 ", "mini", 1, true},
		{"mini/0", "", 0, false},
		{"mini/x", "", 0, false},
		{"/2", "", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		pack, index, err := ParseLevelID(tt.id)
		if tt.ok {
			if err != nil || pack != tt.pack || index != tt.index {
				t.Errorf("ParseLevelID(%q) = %q, %d, %v", tt.id, pack, index, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("ParseLevelID(%q): expected invalid level, got %v", tt.id, err)
		}
	}
}

func TestLevel_Info(t *testing.T) {
	info := defaultLevel().Info()
	if info.ID != "default/1" || info.Name != "test" {
		t.Errorf("Unexpected info %+v", info)
	}
	if info.Width != 6 || info.Height != 6 || info.Balls != 2 || info.Targets != 2 {
		t.Errorf("Expected 6x6 with 2 balls and 2 targets, got %+v", info)
	}

	unnamed := &Level{ID: "x/1", Map: "#####\n#@$.#\n#####\n"}
	if unnamed.Title() != "x/1" {
		t.Errorf("Expected ID as title, got %q", unnamed.Title())
	}
}
