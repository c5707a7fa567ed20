// Package tools builds skills out of activated skill metadata. Each factory
// contributes tool signatures with JSON schema parameters and the handlers
// that execute them.
package tools

import (
	"github.com/invopop/jsonschema"

	"github.com/jingkaihe/skillagent/pkg/interaction"
	"github.com/jingkaihe/skillagent/pkg/skills"
	tooltypes "github.com/jingkaihe/skillagent/pkg/types/tools"
)

// GenerateSchema reflects the parameter schema of a tool input struct.
// Fields without omitempty are required.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

func definition[T any](name, description string) tooltypes.Definition {
	return tooltypes.Definition{
		Name:        name,
		Description: description,
		Parameters:  GenerateSchema[T](),
	}
}

// Factory turns activated metadata into a complete skill.
type Factory func(meta skills.Activated) skills.Skill

// Registry maps skill names to the factory that provides their tools.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry registers the built-in factories. Interactive tools talk to
// ch; shell options apply to the bash skill.
func NewRegistry(ch interaction.Channel, shellOpts ...ShellOption) *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	shell := func(meta skills.Activated) skills.Skill {
		return NewShellSkill(meta, shellOpts...)
	}

	r.Register("filesystem", NewFilesystemSkill)
	r.Register("bash", shell)
	r.Register("shell", shell)
	r.Register("reasoning", NewReasoningSkill)
	r.Register("web-search", NewWebSearchSkill)
	r.Register("interaction", func(meta skills.Activated) skills.Skill {
		return NewInteractionSkill(meta, ch)
	})

	return r
}

// Register adds or replaces the factory for a skill name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Has reports whether a factory exists for name.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Build runs the factory registered under the skill's name. Skills without
// a factory still contribute their instructions, with no tools.
func (r *Registry) Build(meta skills.Activated) skills.Skill {
	if f, ok := r.factories[meta.Name]; ok {
		return f(meta)
	}
	return skills.Skill{Activated: meta}
}

// BuildAll builds every skill in order.
func (r *Registry) BuildAll(metas []skills.Activated) []skills.Skill {
	out := make([]skills.Skill, len(metas))
	for i, meta := range metas {
		out[i] = r.Build(meta)
	}
	return out
}
