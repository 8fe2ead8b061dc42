package main

import "github.com/nikogura/onepage-tailor/cmd"

func main() {
	cmd.Execute()
}
