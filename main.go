package main

import "github.com/closepro/closepro/cmd"

func main() {
	cmd.Execute()
}
