package main

import "cvmatch_backend/internal/app"

func main() {
	app.Run()
}
