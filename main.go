package main

import "github.com/ncar-xdev/ecgtools/cmd"

func main() {
	cmd.Execute()
}
