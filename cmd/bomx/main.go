package main

import "github.com/altinkaya-opensource/odoo-addons/pkg/interfaces/cli/commands"

func main() {
	commands.Execute()
}
