package system

import (
	"errors"

	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	j, err := ctx.OpenJournal()
	if err != nil {
		return err
	}

	result := validation.New().ValidateState(j.State())
	ctx.Println(result.FormatReport())
	if result.HasConflicts() {
		return errors.New("journal has integrity conflicts")
	}
	return nil
}
