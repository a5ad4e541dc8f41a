package main

import "github.com/example/callsched/cmd"

func main() {
	cmd.Execute()
}
