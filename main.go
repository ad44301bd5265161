package main

import "github.com/LegacyCodeHQ/ngstandalone/cmd"

func main() {
	cmd.Execute()
}
