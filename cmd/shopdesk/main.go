package main

import "github.com/akulov/shopdesk/cmd/shopdesk/cmd"

func main() {
	cmd.Execute()
}
