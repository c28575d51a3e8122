package opts

import (
	"context"

	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/preset"
	"gitlab.com/tozd/go/errors"
)

// DefaultConfigFile is read when neither --config nor --preset is given
const DefaultConfigFile = ".rewriterc.hcl"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Preset     string
	Root       string
	Pipelines  []string
	Debug      bool

	// set by Load
	Config *config.Config
}

// Load reads the preset or config file named by the flags
func (o *RootOpts) Load(ctx context.Context) error {
	if o.Preset != "" {
		if o.ConfigFile != "" && o.ConfigFile != DefaultConfigFile {
			return errors.New("--config and --preset are mutually exclusive")
		}
		cfg, err := preset.Get(ctx, o.Preset)
		if err != nil {
			return err
		}
		o.Config = cfg
		return nil
	}

	path := o.ConfigFile
	if path == "" {
		path = DefaultConfigFile
	}
	cfg, err := config.LoadConfig(ctx, path)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg
	return nil
}

// Source describes where the config came from, for headers
func (o *RootOpts) Source() string {
	if o.Preset != "" {
		return "preset " + o.Preset
	}
	if o.Config != nil && o.Config.Location() != "" {
		return o.Config.Location()
	}
	return o.ConfigFile
}
