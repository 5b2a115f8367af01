package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Entry is one line of the structured log.
type Entry struct {
	Time    time.Time
	Level   zerolog.Level
	Message string
	Fields  map[string]string
	// Raw holds the original text for lines that are not JSON objects.
	Raw string
}

// Structured reports whether the line parsed as a JSON log record.
func (e Entry) Structured() bool {
	return e.Raw == ""
}

// FieldKeys returns the extra field names in sorted order.
func (e Entry) FieldKeys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Read returns the last maxLines entries of the log at path, oldest first.
// maxLines <= 0 reads everything. A missing file yields no entries.
func Read(path string, maxLines int) ([]Entry, error) {
	lines, err := tail(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

// Parse decodes one zerolog JSON line. Anything else comes back as a raw
// entry with NoLevel.
func Parse(line string) Entry {
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return Entry{Level: zerolog.NoLevel, Raw: line}
	}

	entry := Entry{Level: zerolog.NoLevel, Fields: map[string]string{}}
	for key, value := range record {
		switch key {
		case zerolog.LevelFieldName:
			if s, ok := value.(string); ok {
				if lvl, err := zerolog.ParseLevel(s); err == nil {
					entry.Level = lvl
				}
			}
		case zerolog.MessageFieldName:
			entry.Message = stringify(value)
		case zerolog.TimestampFieldName:
			if s, ok := value.(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					entry.Time = ts
				}
			}
		default:
			entry.Fields[key] = stringify(value)
		}
	}
	return entry
}

// AtLeast keeps entries at or above min. Raw lines are always kept.
func AtLeast(entries []Entry, min zerolog.Level) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Structured() || e.Level == zerolog.NoLevel || e.Level >= min {
			out = append(out, e)
		}
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func tail(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
