package filesystem

import (
	"os"

	"github.com/wit-vcs/wit/config"
	formatcfg "github.com/wit-vcs/wit/plumbing/format/config"
	"github.com/wit-vcs/wit/storage/filesystem/dotgit"
	"github.com/wit-vcs/wit/utils/ioutil"
)

// ConfigStorage reads and writes .git/config.
type ConfigStorage struct {
	dir *dotgit.DotGit

	// objectFormat is the format this storage was opened with, used as
	// the default for a repository whose config doesn't specify one.
	objectFormat formatcfg.ObjectFormat
}

// Config reads and parses .git/config. A repository with no config file
// yet gets an empty Config seeded with this storage's object format.
func (c *ConfigStorage) Config() (_ *config.Config, err error) {
	cfg := config.NewConfig()

	f, err := c.dir.Config()
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Extensions.ObjectFormat = c.objectFormat
			return cfg, nil
		}

		return nil, err
	}

	defer ioutil.CheckClose(f, &err)

	cfg, err = config.ReadConfig(f)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// SetConfig validates and persists cfg to .git/config.
func (c *ConfigStorage) SetConfig(cfg *config.Config) (err error) {
	if err := cfg.Validate(); err != nil {
		return err
	}

	b, err := cfg.Marshal()
	if err != nil {
		return err
	}

	f, err := c.dir.ConfigWriter()
	if err != nil {
		return err
	}

	defer ioutil.CheckClose(f, &err)

	_, err = f.Write(b)
	return err
}
