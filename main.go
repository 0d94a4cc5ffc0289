package main

import "tablekeeper/cmd"

func main() {
	cmd.Execute()
}
