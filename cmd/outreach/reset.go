package main

import (
	"fmt"

	"github.com/fwojciec/outreach"
)

// Run executes the reset command. The contact history is kept.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return outreach.Errorf(outreach.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Store.Clear(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", outreach.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cleared checkpoints in %s\n", deps.Config.Files.DataDir)
	return nil
}
