package main

import "github.com/Rorical/EcoChat/cmd"

func main() {
	cmd.Execute()
}
