package main

import "github.com/callmegreg/gh-migrate-settings/cmd"

func main() {
	cmd.Execute()
}
