package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/toml"
)

// Run executes the config command.
func (c *ConfigCmd) Run(deps *Dependencies) error {
	if c.Path == "" {
		return toml.WriteConfig(deps.Stdout, deps.Config)
	}

	if _, err := os.Stat(c.Path); err == nil && !c.Force {
		fmt.Fprintf(deps.Stderr, "error: %s already exists. Use --force to overwrite.\n", c.Path)
		return outreach.Errorf(outreach.ECONFLICT, "%s already exists", c.Path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot create %s: %v\n", c.Path, err)
		return err
	}
	if err := toml.WriteConfig(f, deps.Config); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Path)
	return nil
}
