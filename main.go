package main

import "github.com/timvw/tmuxedo/cmd"

func main() {
	cmd.Execute()
}
