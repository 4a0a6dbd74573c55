package levels

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
)

// Pack is an ordered collection of levels loaded from one file
type Pack struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Levels      []*Level `json:"levels"`
}

// Level returns the level at a 1-based index
func (p *Pack) Level(index int) (*Level, error) {
	if index < 1 || index > len(p.Levels) {
		return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, LevelID(p.Name, index))
	}
	return p.Levels[index-1], nil
}

// Add appends a level, assigning its pack, index and ID
func (p *Pack) Add(l *Level) {
	l.Pack = p.Name
	l.Index = len(p.Levels) + 1
	l.ID = LevelID(p.Name, l.Index)
	p.Levels = append(p.Levels, l)
}

// Warning reports a block skipped or partially read while parsing
type Warning struct {
	Block   int    `json:"block"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("block %d: %s", w.Block, w.Message)
}

var headerPattern = regexp.MustCompile(`^([\w\s]+):\s*(.*)$`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02.01.2006",
}

// ParsePack reads a pack in the text pack format. Parsing is lenient:
// blocks that cannot be used are skipped and reported as warnings. Only
// read failures are returned as errors.
func ParsePack(name string, r io.Reader) (*Pack, []Warning, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read pack %s: %w", name, err)
	}

	pack := &Pack{Name: name}
	var warnings []Warning
	var description []string
	levelsStarted := false

	for i, block := range splitBlocks(string(data)) {
		blockNum := i + 1
		mapLines, headers := readBlock(block)

		if len(mapLines) == 0 {
			if !levelsStarted {
				description = append(description, strings.Join(block, "\n"))
			} else {
				warnings = append(warnings, Warning{Block: blockNum, Message: "block has no map, skipped"})
			}
			continue
		}

		levelMap := strings.Join(mapLines, "\n") + "\n"
		if _, err := engine.ParseString(levelMap); err != nil {
			// Before the first level, "# Title" style lines are description
			if !levelsStarted {
				description = append(description, strings.Join(block, "\n"))
				continue
			}
			warnings = append(warnings, Warning{Block: blockNum, Message: fmt.Sprintf("bad map, skipped: %v", err)})
			continue
		}
		levelsStarted = true

		level := &Level{
			Author: headers["author"],
			Name:   firstOf(headers, "name", "title"),
			Map:    levelMap,
		}
		level.Description = firstOf(headers, "description", "comment")
		if raw, ok := headers["date"]; ok && raw != "" {
			if date, ok := parseDate(raw); ok {
				level.Date = &date
			} else {
				warnings = append(warnings, Warning{Block: blockNum, Message: fmt.Sprintf("unrecognized date %q", raw)})
			}
		}
		pack.Add(level)
	}

	pack.Description = strings.Join(description, "\n")
	return pack, warnings, nil
}

// splitBlocks breaks text into runs of non-blank lines
func splitBlocks(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// readBlock separates the leading map rows of a block from its headers
func readBlock(lines []string) ([]string, map[string]string) {
	var mapLines []string
	headers := map[string]string{"comment": ""}
	header := "comment"
	mapMode := true

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if mapMode {
			if line != "" && (line[0] == '-' || line[0] == '#') {
				mapLines = append(mapLines, line)
				continue
			}
			mapMode = false
		}

		if m := headerPattern.FindStringSubmatch(line); m != nil {
			header = strings.ToLower(strings.TrimSpace(m[1]))
			headers[header] = strings.TrimSpace(m[2])
			continue
		}
		headers[header] = strings.TrimSpace(headers[header] + " " + line)
	}
	return mapLines, headers
}

func firstOf(headers map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := headers[k]; v != "" {
			return v
		}
	}
	return ""
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WritePack writes a pack in the text pack format read by ParsePack
func WritePack(w io.Writer, p *Pack) error {
	bw := bufio.NewWriter(w)
	first := true
	block := func() {
		if !first {
			bw.WriteString("\n")
		}
		first = false
	}

	if desc := strings.TrimSpace(p.Description); desc != "" {
		block()
		for _, line := range strings.Split(desc, "\n") {
			// Description lines must not look like map rows
			line = strings.TrimLeft(strings.TrimSpace(line), "-#")
			if line != "" {
				bw.WriteString(line + "\n")
			}
		}
	}

	for _, l := range p.Levels {
		block()
		bw.WriteString(strings.TrimRight(strings.ReplaceAll(l.Map, "\r\n", "\n"), "\n") + "\n")
		writeHeader(bw, "Title", l.Name)
		writeHeader(bw, "Author", l.Author)
		writeHeader(bw, "Description", l.Description)
		if l.Date != nil {
			writeHeader(bw, "Date", l.Date.Format("2006-01-02"))
		}
	}
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, key, value string) {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", key, value)
}
