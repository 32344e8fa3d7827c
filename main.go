package main

import (
	"github.com/sm0kydev/skingraft/cmd"
)

func main() {
	cmd.Execute()
}
