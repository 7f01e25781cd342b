package main

import "crowdwatch-cli/cmd"

func main() {
	cmd.Execute()
}
