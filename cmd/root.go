package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCMD = &cobra.Command{
	Use:   "cotacoes",
	Short: "Energy-Market Quote Analysis Tool",
	Long: `A CLI application for loading and analyzing energy-market price quotes.
This tool normalizes a quote spreadsheet (CSV or XLSX) into a canonical
dataset and serves filtered and aggregated views through a REST API.`,
}

func Execute() {
	err := rootCMD.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}
}

// getEnv returns an environment variable or a fallback value
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
