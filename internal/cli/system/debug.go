package system

import (
	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/logger"
)

type DebugCmd struct {
	DBPath  DebugDBPathCmd  `cmd:"" name:"db-path" help:"Print the journal store location."`
	LogPath DebugLogPathCmd `cmd:"" name:"log-path" help:"Print the log file location."`
	Keys    DebugKeysCmd    `cmd:"" help:"List the keys present in the store."`
}

type DebugDBPathCmd struct{}

func (c *DebugDBPathCmd) Run(ctx *cli.Context) error {
	ctx.Println(maskPassword(ctx.Store.GetConfigPath()))
	return nil
}

type DebugLogPathCmd struct{}

func (c *DebugLogPathCmd) Run(ctx *cli.Context) error {
	if f := logger.File(); f != "" {
		ctx.Println(f)
		return nil
	}
	ctx.Println("logging to stderr only")
	return nil
}

type DebugKeysCmd struct{}

func (c *DebugKeysCmd) Run(ctx *cli.Context) error {
	keys, err := ctx.Store.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		ctx.Println(k)
	}
	return nil
}
