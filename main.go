package main

import "matchflow/cmd"

func main() {
	cmd.Execute()
}
