package main

import "vocalab-users/cmd/api/cmd"

func main() {
	cmd.Execute()
}
