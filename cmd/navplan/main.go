// Command navplan is a demo CLI wiring a recorded scan log or LAS point
// cloud through the traversability map pipeline and the kinodynamic
// planner: `navplan ingest` builds and dumps a map, `navplan plan` builds
// a map and plans a trajectory to a goal point.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "navplan",
		Usage: "traversability mapping and kinodynamic trajectory planning",
		Commands: []*cli.Command{
			ingestCommand,
			planCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "navplan:", err)
		os.Exit(1)
	}
}
