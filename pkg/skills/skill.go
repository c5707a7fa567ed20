// Package skills discovers, activates and describes agent skills.
//
// A skill lives in its own directory containing a SKILL.md descriptor: a
// "---" delimited block of unindented "key: value" lines followed by free
// text instructions. Discovery reads only the name and description so a large
// catalog stays cheap; activation re-reads the descriptor and keeps the
// instructions for the system prompt.
package skills

import (
	"github.com/pkg/errors"

	tooltypes "github.com/jingkaihe/skillagent/pkg/types/tools"
)

// DescriptorFileName is the descriptor expected in every skill directory.
const DescriptorFileName = "SKILL.md"

// Metadata is what discovery knows about a skill.
type Metadata struct {
	Name        string
	Description string
	Location    string // directory the skill was loaded from
}

// Activated is a skill whose instructions have been loaded.
type Activated struct {
	Metadata
	Instructions string
}

// Skill is a bundle of instructions, tool signatures and their handlers.
// Skills are built once at startup and not mutated afterwards.
type Skill struct {
	Activated
	Tools    []tooltypes.Definition
	Handlers map[string]tooltypes.Handler
}

// Validate checks that tools and handlers pair up one to one.
func (s Skill) Validate() error {
	seen := make(map[string]struct{}, len(s.Tools))
	for _, def := range s.Tools {
		if def.Name == "" {
			return errors.Errorf("skill %q declares a tool without a name", s.Name)
		}
		if _, dup := seen[def.Name]; dup {
			return errors.Errorf("skill %q declares tool %q twice", s.Name, def.Name)
		}
		seen[def.Name] = struct{}{}
		if s.Handlers[def.Name] == nil {
			return errors.Errorf("skill %q has no handler for tool %q", s.Name, def.Name)
		}
	}
	for name := range s.Handlers {
		if _, ok := seen[name]; !ok {
			return errors.Errorf("skill %q has a handler for undeclared tool %q", s.Name, name)
		}
	}
	return nil
}

// ToolNames returns the names of the skill's tools in declaration order.
func (s Skill) ToolNames() []string {
	names := make([]string, len(s.Tools))
	for i, def := range s.Tools {
		names[i] = def.Name
	}
	return names
}
