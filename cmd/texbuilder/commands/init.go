package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/texbuilder/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory for the generated config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if i.Output != "" {
		return RunInit(filepath.Join(i.Output, config.DefaultConfigFile), i.Force)
	}
	return RunInit(root.Config, i.Force)
}

func RunInit(configPath string, force bool) error {
	fmt.Printf("Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return ferrors.ConfigError("initialization failed").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	fmt.Println("initialized successfully")
	return nil
}
