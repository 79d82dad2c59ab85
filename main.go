package main

import "github.com/frahmantamala/futsal-booking/cmd"

func main() {
	cmd.Execute()
}
