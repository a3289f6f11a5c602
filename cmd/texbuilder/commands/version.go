package commands

import (
	"fmt"

	"git.home.luguber.info/inful/texbuilder/internal/version"
)

// VersionInfoCmd implements the 'version' command.
type VersionInfoCmd struct{}

func (VersionInfoCmd) Run(_ *Global, _ *CLI) error {
	fmt.Println("texbuilder " + version.String())
	return nil
}
