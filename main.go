package main

import (
	"fmt"
	"os"
	"path/filepath"

	"casfolio/cas-import/cmd/holdings"
	"casfolio/cas-import/cmd/ingest"
	"casfolio/cas-import/cmd/parse"
	"casfolio/cas-import/cmd/root"

	"github.com/joho/godotenv"
)

func init() {
	// Environment variables load before anything logs so CAS_LOG_LEVEL is
	// honored from the very first message.
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(holdings.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
