package main

import (
	"github.com/nvasko/loom/internal/ui/cli"
)

func main() {
	cli.Execute()
}
