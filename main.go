package main

import "github.com/pebbling-ai/pebbling-site/cmd"

func main() {
	cmd.Execute()
}
