package main

import (
	"github.com/ssargent/clockstore/cmd/clockstore/cmd"
)

func main() {
	cmd.Execute()
}
