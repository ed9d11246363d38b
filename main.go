package main

import "github.com/tanq16/ytbulk/cmd"

func main() {
	cmd.Execute()
}
