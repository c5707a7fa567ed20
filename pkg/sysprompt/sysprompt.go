// Package sysprompt composes the agent system prompt from a template and the
// instructions of the active skills.
package sysprompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillagent/pkg/skills"
)

// SkillsPlaceholder marks where the skills catalog goes in a template.
const SkillsPlaceholder = "{{SKILLS}}"

//go:embed templates/default.md
var defaultTemplate string

// DefaultTemplate returns the built-in template.
func DefaultTemplate() string {
	return strings.TrimRight(defaultTemplate, "\n")
}

// RenderSkills renders one tagged block per skill with its full
// instructions, in the given order.
func RenderSkills(list []skills.Skill) string {
	blocks := make([]string, len(list))
	for i, s := range list {
		blocks[i] = fmt.Sprintf("  <skill name=%q>\n%s\n  </skill>", s.Name, s.Instructions)
	}
	return strings.Join(blocks, "\n")
}

// Build substitutes the skills catalog into template, or into the default
// template when template is empty. A template without the placeholder is
// used as is.
func Build(template string, list []skills.Skill) string {
	if template == "" {
		template = DefaultTemplate()
	}
	return strings.ReplaceAll(template, SkillsPlaceholder, RenderSkills(list))
}

// LoadTemplate reads a template file.
func LoadTemplate(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read system prompt template %s", path)
	}
	return string(content), nil
}
