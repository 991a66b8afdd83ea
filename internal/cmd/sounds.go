package cmd

import (
	"fmt"
	"sort"
)

// SoundsCmd lists the sound aliases defined in the config file
type SoundsCmd struct{}

// Run prints the configured aliases
func (s *SoundsCmd) Run(cli *CLI) error {
	if len(cli.cfg.Sounds) == 0 {
		fmt.Println("No sound aliases found in config.")
		fmt.Println("You can define aliases under 'sounds:' in ducker.yml.")
		return nil
	}

	names := make([]string, 0, len(cli.cfg.Sounds))
	for name := range cli.cfg.Sounds {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available sound aliases:")
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, cli.cfg.Sounds[name])
	}
	return nil
}
