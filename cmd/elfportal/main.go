package main

import "elfportal/internal/app"

func main() {
	app.Run()
}
