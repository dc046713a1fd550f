package main

import (
	"os"

	"sentinel/cmd/sentinel/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
