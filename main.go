package main

import "github.com/redjax/notefolio/cmd"

func main() {
	cmd.Execute()
}
