package main

import "tscut/cmd"

func main() {
	cmd.Execute()
}
