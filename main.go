package main

import "github.com/brogergvhs/mcreader/cmd"

func main() {
	cmd.Execute()
}
