package main

import "usertable/cmd/usertable/commands"

func main() {
	commands.Execute()
}
