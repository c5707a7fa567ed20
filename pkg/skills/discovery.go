package skills

import (
	"context"
	"iter"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillagent/pkg/logger"
)

// Discovery enumerates skills from configured directories
type Discovery struct {
	skillDirs []string
	allowlist []glob.Glob
}

// Option configures a Discovery
type Option func(*Discovery) error

// WithSkillDirs sets the directories to scan, in precedence order
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithDefaultDirs scans the repo-local then the user-global skills directory
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./.skillagent/skills",
			filepath.Join(homeDir, ".skillagent", "skills"),
		}
		return nil
	}
}

// WithAllowlist keeps only skills whose name matches one of the glob
// patterns. No patterns means every skill is allowed.
func WithAllowlist(patterns ...string) Option {
	return func(d *Discovery) error {
		for _, p := range patterns {
			g, err := glob.Compile(p)
			if err != nil {
				return errors.Wrapf(err, "invalid skill pattern %q", p)
			}
			d.allowlist = append(d.allowlist, g)
		}
		return nil
	}
}

// NewDiscovery creates a Discovery. Without options it uses the default dirs.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}
	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Discovery) allowed(name string) bool {
	if len(d.allowlist) == 0 {
		return true
	}
	for _, g := range d.allowlist {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// All lazily walks the configured directories in order. Every immediate
// subdirectory holding a SKILL.md yields its metadata; subdirectories
// without one are skipped. A malformed descriptor yields an error for that
// skill and the walk carries on unless the consumer stops it.
func (d *Discovery) All(ctx context.Context) iter.Seq2[Metadata, error] {
	return func(yield func(Metadata, error) bool) {
		for _, dir := range d.skillDirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if err := ctx.Err(); err != nil {
					yield(Metadata{}, err)
					return
				}

				location := filepath.Join(dir, entry.Name())
				info, err := os.Stat(location)
				if err != nil || !info.IsDir() {
					continue
				}
				if _, err := os.Stat(filepath.Join(location, DescriptorFileName)); err != nil {
					continue
				}

				fm, err := readDescriptor(location)
				if err != nil {
					if !yield(Metadata{Location: location}, err) {
						return
					}
					continue
				}
				if !d.allowed(fm.Name) {
					continue
				}
				meta := Metadata{Name: fm.Name, Description: fm.Description, Location: location}
				if !yield(meta, nil) {
					return
				}
			}
		}
	}
}

// Discover collects All. The first skill seen with a given name wins.
// Descriptor failures are gathered into one error returned next to the
// skills that did load, so callers can decide whether to abort or carry on.
func (d *Discovery) Discover(ctx context.Context) ([]Metadata, error) {
	var (
		found  []Metadata
		result *multierror.Error
		seen   = make(map[string]struct{})
	)

	for meta, err := range d.All(ctx) {
		if err != nil {
			if ctx.Err() != nil {
				return found, err
			}
			result = multierror.Append(result, err)
			continue
		}
		if _, dup := seen[meta.Name]; dup {
			logger.G(ctx).WithField("skill", meta.Name).WithField("location", meta.Location).
				Debug("skipping shadowed skill")
			continue
		}
		seen[meta.Name] = struct{}{}
		found = append(found, meta)
	}

	log := logger.G(ctx)
	log.WithField("count", len(found)).Debug("discovered skills")
	for _, meta := range found {
		log.WithField("skill", meta.Name).WithField("description", meta.Description).Debug("skill found")
	}

	return found, result.ErrorOrNil()
}

// Discover scans a single directory.
func Discover(ctx context.Context, dir string) ([]Metadata, error) {
	d, err := NewDiscovery(WithSkillDirs(dir))
	if err != nil {
		return nil, err
	}
	return d.Discover(ctx)
}

func readDescriptor(location string) (Frontmatter, error) {
	path := filepath.Join(location, DescriptorFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return Frontmatter{}, errors.Wrapf(err, "failed to read %s", path)
	}
	fm, err := ParseFrontmatter(string(content))
	if err != nil {
		return Frontmatter{}, errors.Wrapf(err, "failed to parse %s", path)
	}
	if fm.Name == "" {
		return Frontmatter{}, errors.Wrapf(ErrInvalidDescriptor, "%s: name is required", path)
	}
	if fm.Description == "" {
		return Frontmatter{}, errors.Wrapf(ErrInvalidDescriptor, "%s: description is required", path)
	}
	return fm, nil
}
