package main

import "github.com/nextlevelbuilder/tgwebhook/cmd"

func main() {
	cmd.Execute()
}
