// docsift infers heading hierarchies in PDF documents from typographic
// signals and ranks the sections against a persona/job query.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "docsift",
	Short: "Rank PDF sections by relevance to a persona and job-to-be-done",
	Long: `docsift scans a directory of PDF files, infers each document's heading
hierarchy from font sizes and weights (no embedded outline required), strips
recurring headers and footers, and ranks the inferred sections against a
query described by a persona and a job-to-be-done.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
