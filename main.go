package main

import "github.com/ridoystarlord/formgen/cmd"

func main() {
	cmd.Execute()
}
