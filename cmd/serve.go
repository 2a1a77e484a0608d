package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/viktsys/cotacoes/api"
	"github.com/viktsys/cotacoes/ingest"
	"github.com/viktsys/cotacoes/models"
)

var serveCMD = &cobra.Command{
	Use:   "serve [spreadsheet]",
	Short: "Load a quote spreadsheet and start the API server",
	Long: `Normalize the given quote spreadsheet (CSV with ';' separator or XLSX)
and serve the analytical views over HTTP. Without an argument the path is
taken from the COTACOES_FILE environment variable or the default local file.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ds, err := loadDataset(args)
		if err != nil {
			if errors.Is(err, ingest.ErrNoData) {
				fmt.Println("No quote data: pass a spreadsheet path or add 'cotacoes_energia.csv' to the working directory.")
				return
			}
			log.Fatalf("Failed to load dataset: %v", err)
		}

		r := api.SetupRoutes(ds)

		port := ":" + getEnv("PORT", "8080")
		log.Printf("Starting server on port %s with %d quotes", port, ds.Len())
		if err := r.Run(port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

// loadDataset resolves the source in order: CLI argument, COTACOES_FILE
// environment variable, fixed default path.
func loadDataset(args []string) (*models.Dataset, error) {
	if len(args) == 1 {
		return ingest.Load(args[0])
	}
	if path := getEnv("COTACOES_FILE", ""); path != "" {
		return ingest.Load(path)
	}
	return ingest.LoadDefault()
}

func init() {
	rootCMD.AddCommand(serveCMD)
}
