package main

import "github.com/sadopc/tally/cmd"

func main() {
	cmd.Execute()
}
