package main

import "github.com/svanichkin/bwrle/cmd"

func main() {
	cmd.Execute()
}
