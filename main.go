package main

import "github.com/chrisdamba/ridesim/cmd"

func main() {
	cmd.Execute()
}
