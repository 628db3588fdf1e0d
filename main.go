package main

import "github.com/inovacc/dcc/cmd"

func main() {
	cmd.Execute()
}
