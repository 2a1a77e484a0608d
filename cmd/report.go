package cmd

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"
	"github.com/viktsys/cotacoes/analytics"
	"github.com/viktsys/cotacoes/ingest"
)

// Mirrors the dashboard's fixed-width metric row: only the first years fit.
const maxReportYears = 5

var reportCMD = &cobra.Command{
	Use:   "report [spreadsheet]",
	Short: "Print a summary of the best prices per supply year",
	Long: `Load and normalize a quote spreadsheet, then print the dataset period
and the cheapest quote for each supply year to stdout.`,
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

		view := analytics.Filter(ds, analytics.Criteria{})
		resumo := analytics.Summary(view)

		fmt.Printf("Cotações: %d\n", resumo.Quantidade)
		if resumo.DataInicial != nil && resumo.DataFinal != nil {
			fmt.Printf("Período: %s a %s\n",
				resumo.DataInicial.Format("02/01/2006"),
				resumo.DataFinal.Format("02/01/2006"))
		}

		melhores := analytics.BestPerYear(view, nil)
		anos := make([]int, 0, len(melhores))
		for ano := range melhores {
			anos = append(anos, ano)
		}
		sort.Ints(anos)
		if len(anos) > maxReportYears {
			anos = anos[:maxReportYears]
		}

		fmt.Println("\nMelhores oportunidades (menor preço):")
		for _, ano := range anos {
			melhor := melhores[ano]
			fmt.Printf("  %d: %s (%s | %s)\n",
				ano,
				ingest.FormatPreco(melhor.Valor),
				melhor.Cotacao.Comercializadora,
				melhor.Cotacao.TipoEnergia)
		}
	},
}

func init() {
	rootCMD.AddCommand(reportCMD)
}
