package main

import "github.com/ascendance/cardadmin/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
