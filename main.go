package main

import "github.com/RustedBytes/extract-audio/cmd"

func main() {
	cmd.Execute()
}
