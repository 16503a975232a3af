package main

import "github.com/airenas/minutego/internal/app/healthcheck"

func main() {
	healthcheck.Execute()
}
