// Command rosreg-admin is the administrative CLI for the rosreg service.
package main

import (
	"github.com/rosverk/rosreg/cmd/cli"
)

func main() {
	cli.Execute()
}
