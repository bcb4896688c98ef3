// Package main is the entry point of swapfs.
package main

import (
	"github.com/samber/lo"
	"github.com/swapfs/swapfs/cmd"
	"github.com/swapfs/swapfs/config"
	"github.com/swapfs/swapfs/journal"
	"github.com/swapfs/swapfs/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	if dropped, err := journal.Prune(); err != nil {
		log.Warnf("prune journal: %s", err)
	} else if dropped > 0 {
		log.Infof("pruned %d expired journal entries", dropped)
	}

	cmd.Execute()
}
