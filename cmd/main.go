package main

import "github.com/BeamLabEU/phoenix-kit-sub002/cmd/commands"

func main() {
	cli := commands.NewRootCmd()

	err := cli.Execute()
	if err != nil {
		panic(err)
	}
}
