package main

import "github.com/rail44/userlist/cmd"

func main() {
	cmd.Execute()
}
