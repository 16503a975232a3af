package main

import (
	"github.com/airenas/minutego/internal/app/clean"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	clean.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
           _             _       
 _ __ ___ (_)_ __  _   _| |_ ___ 
| '_ ` + "`" + ` _ \| | '_ \| | | | __/ _ \
| | | | | | | | | | |_| | ||  __/
|_| |_| |_|_|_| |_|\__,_|\__\___|  clean v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/airenas/minutego"))
}
