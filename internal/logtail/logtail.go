package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/five82/shelf/internal/logging"
)

// Entry is one decoded log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]any
	Raw     string
}

// Read returns at most maxLines from the end of the file at path.
// maxLines <= 0 returns every line.
func Read(path string, maxLines int) ([]string, error) {
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
	count := 0
	idx := 0
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

// Tail reads the last maxLines of a zap JSON log and decodes them.
func Tail(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
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

// Parse decodes one line. Lines that are not JSON objects come back with
// only Message and Raw set.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Message: line}

	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil || fields == nil {
		return entry
	}

	if v, ok := fields[logging.MessageKey].(string); ok {
		entry.Message = v
	} else {
		entry.Message = ""
	}
	if v, ok := fields[logging.LevelKey].(string); ok {
		entry.Level = strings.ToLower(v)
	}
	if v, ok := fields[logging.TimeKey].(string); ok {
		entry.Time = parseTime(v)
	}
	for _, key := range []string{logging.MessageKey, logging.LevelKey, logging.TimeKey, logging.CallerKey, logging.NameKey} {
		delete(fields, key)
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}
	return entry
}

var timeLayouts = []string{
	"2006-01-02T15:04:05.000Z0700",
	time.RFC3339Nano,
}

func parseTime(value string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FieldKeys returns the entry's field names in sorted order.
func (e Entry) FieldKeys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FormatFields renders fields as space separated key=value pairs.
func (e Entry) FormatFields() string {
	keys := e.FieldKeys()
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Fields[k]))
	}
	return strings.Join(parts, " ")
}

// String formats the entry as a single plain text line.
func (e Entry) String() string {
	if e.Level == "" && e.Time.IsZero() && len(e.Fields) == 0 {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Format("15:04:05.000"))
		b.WriteByte(' ')
	}
	if e.Level != "" {
		b.WriteString(strings.ToUpper(e.Level))
		b.WriteByte(' ')
	}
	b.WriteString(e.Message)
	if f := e.FormatFields(); f != "" {
		b.WriteByte(' ')
		b.WriteString(f)
	}
	return b.String()
}
