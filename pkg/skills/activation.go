package skills

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillagent/pkg/logger"
)

// Activate re-reads the descriptor at location and keeps its body as the
// skill instructions. It only reads disk, so calling it again is harmless.
func Activate(ctx context.Context, location string) (Activated, error) {
	fm, err := readDescriptor(location)
	if err != nil {
		return Activated{}, err
	}

	logger.G(ctx).
		WithField("skill", fm.Name).
		WithField("chars", len([]rune(fm.Body))).
		Debug("skill activated")

	return Activated{
		Metadata: Metadata{
			Name:        fm.Name,
			Description: fm.Description,
			Location:    location,
		},
		Instructions: fm.Body,
	}, nil
}

// Config selects which skills Load picks up.
type Config struct {
	// Dirs are searched in order; empty means the default directories.
	Dirs    []string
	// Allowed holds glob patterns over skill names; empty allows all.
	Allowed []string
}

func (cfg Config) discovery() (*Discovery, error) {
	opts := []Option{WithAllowlist(cfg.Allowed...)}
	if len(cfg.Dirs) > 0 {
		dirs := make([]string, len(cfg.Dirs))
		for i, dir := range cfg.Dirs {
			dirs[i] = expandHome(dir)
		}
		opts = append(opts, WithSkillDirs(dirs...))
	} else {
		opts = append(opts, WithDefaultDirs())
	}
	return NewDiscovery(opts...)
}

// List discovers the skills selected by cfg without activating them.
// Descriptors that fail to parse are reported through the returned error
// next to the skills that did load.
func List(ctx context.Context, cfg Config) ([]Metadata, error) {
	discovery, err := cfg.discovery()
	if err != nil {
		return nil, err
	}
	return discovery.Discover(ctx)
}

// Load discovers and activates every skill selected by cfg. Skills that fail
// either step are left out and reported through the returned error.
func Load(ctx context.Context, cfg Config) ([]Activated, error) {
	discovery, err := cfg.discovery()
	if err != nil {
		return nil, err
	}

	found, discoverErr := discovery.Discover(ctx)
	var result *multierror.Error
	if discoverErr != nil {
		if ctx.Err() != nil {
			return nil, discoverErr
		}
		result = multierror.Append(result, discoverErr)
	}

	activated := make([]Activated, 0, len(found))
	for _, meta := range found {
		a, err := Activate(ctx, meta.Location)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to activate skill %q", meta.Name))
			continue
		}
		activated = append(activated, a)
	}

	return activated, result.ErrorOrNil()
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
