package main

import app "llm-ensemble/internal/app"

func main() {
	app.Run()
}
