// package formatter provides functions to export image library reports to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
)

// Supported export formats
const (
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// Library is a snapshot of the images found below a root directory.
type Library struct {
	Root        string                `json:"root"`
	GeneratedAt time.Time             `json:"generated_at"`
	Records     []*models.ImageRecord `json:"images"`
}

// TagCount is the number of images carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagCounts tallies tags across the library, most used first and then by name.
func (l *Library) TagCounts() []TagCount {
	counts := map[string]*TagCount{}
	for _, r := range l.Records {
		for _, t := range r.Tags {
			key := strings.ToLower(t.Name)
			if c, ok := counts[key]; ok {
				c.Count++
				continue
			}
			counts[key] = &TagCount{Tag: t.Name, Count: 1}
		}
	}

	out := make([]TagCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Tag) < strings.ToLower(out[j].Tag)
	})
	return out
}

// ExportToCSV converts a Library to CSV format with columns: Name, Path, Tags, History, Renames
//
// Tags and history entries are joined with "; ".
func ExportToCSV(lib *Library) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "Path", "Tags", "History", "Renames"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range lib.Records {
		record := []string{
			r.Name,
			r.Path,
			strings.Join(r.Tags.Names(), "; "),
			strings.Join(r.NameHistory, "; "),
			strconv.Itoa(len(r.NameHistory) - 1),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Library to Markdown format with a tag summary and one section per image
func ExportToMarkdown(lib *Library) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", lib.Root))
	buf.WriteString(fmt.Sprintf("**Images**: %d\n", len(lib.Records)))
	if !lib.GeneratedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Generated**: %s\n", lib.GeneratedAt.Format(time.RFC3339)))
	}
	buf.WriteString("\n")

	if counts := lib.TagCounts(); len(counts) > 0 {
		buf.WriteString("## Tags\n\n")
		buf.WriteString("| Tag | Images |\n|---|---|\n")
		for _, c := range counts {
			buf.WriteString(fmt.Sprintf("| %s | %d |\n", escapeCell(c.Tag), c.Count))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Images\n\n")
	for i, r := range lib.Records {
		buf.WriteString(fmt.Sprintf("%d. **%s**", i+1, r.Name))
		if len(r.Tags) > 0 {
			buf.WriteString(fmt.Sprintf(" [%s]", r.Tags))
		}
		buf.WriteString("\n")
		buf.WriteString(fmt.Sprintf("   - Path: `%s`\n", r.Path))
		if len(r.NameHistory) > 1 {
			buf.WriteString(fmt.Sprintf("   - History: %s\n", strings.Join(r.NameHistory, " → ")))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Library to plain text format
func ExportToText(lib *Library) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Library: %s\n", lib.Root))
	buf.WriteString(fmt.Sprintf("Images: %d\n\n", len(lib.Records)))

	for i, r := range lib.Records {
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, r.Name))
		if len(r.Tags) > 0 {
			buf.WriteString(fmt.Sprintf(" (%s)", r.Tags))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a Library to indented JSON
func ExportToJSON(lib *Library) ([]byte, error) {
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders lib in the named format.
func Export(lib *Library, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ExportToCSV(lib)
	case FormatMarkdown, "markdown":
		return ExportToMarkdown(lib)
	case FormatText, "text":
		return ExportToText(lib)
	case FormatJSON:
		return ExportToJSON(lib)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want csv, md, txt or json)", shared.ErrInvalidFlag, format)
	}
}

// DefaultFilename returns the report name used when no output path is given.
func DefaultFilename(format string) string {
	ext := strings.ToLower(format)
	switch ext {
	case "markdown":
		ext = FormatMarkdown
	case "text":
		ext = FormatText
	}
	return "phototag_export." + ext
}

// WriteExport renders lib and writes it to path, creating parent directories.
//
// Defaults to [DefaultFilename] in the working directory.
func WriteExport(lib *Library, format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(format)
	}

	data, err := Export(lib, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func escapeCell(s string) string { return strings.ReplaceAll(s, "|", `\|`) }
