package skills

import (
	"strings"

	"github.com/pkg/errors"
)

const delimiter = "---"

// ErrInvalidDescriptor is returned for descriptors without a delimited
// metadata block.
var ErrInvalidDescriptor = errors.New("invalid SKILL.md: no frontmatter found")

// Frontmatter is a parsed descriptor.
type Frontmatter struct {
	Name        string
	Description string
	Body        string
	// Fields holds every top-level key, including name and description.
	Fields map[string]string
}

// ParseFrontmatter splits raw on "---". The first segment is ignored, the
// second is the metadata block and the rest, rejoined with the delimiter, is
// the body. Only lines starting at column zero that contain a colon are read
// as metadata, so indented continuation lines never clobber a key.
func ParseFrontmatter(raw string) (Frontmatter, error) {
	parts := strings.Split(raw, delimiter)
	if len(parts) < 3 {
		return Frontmatter{}, ErrInvalidDescriptor
	}

	fields := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(parts[1]), "\n") {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		fields[strings.TrimSpace(line[:idx])] = strings.TrimSpace(line[idx+1:])
	}

	return Frontmatter{
		Name:        fields["name"],
		Description: fields["description"],
		Body:        strings.TrimSpace(strings.Join(parts[2:], delimiter)),
		Fields:      fields,
	}, nil
}

// FormatDescriptor renders a descriptor that ParseFrontmatter reads back
// into the same name, description and body.
func FormatDescriptor(name, description, body string) string {
	var sb strings.Builder
	sb.WriteString(delimiter + "\n")
	sb.WriteString("name: " + name + "\n")
	sb.WriteString("description: " + description + "\n")
	sb.WriteString(delimiter + "\n\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	return sb.String()
}
