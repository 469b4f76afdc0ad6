package main

import "clipvault/cmd/client/cmd"

func main() {
	cmd.Execute()
}
