package main

import "report-sync/cmd"

func main() {
	cmd.Execute()
}
