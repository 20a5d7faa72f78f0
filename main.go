package main

import "portdash/cmd"

func main() {
	cmd.Execute()
}
