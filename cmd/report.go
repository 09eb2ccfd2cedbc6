package cmd

import (
	"github.com/huangsam/langtrends/core"
	"github.com/huangsam/langtrends/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd charts quarterly language shares from the store.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Chart each language's quarterly share of pushes.",
	Long: `Query the imported table and chart how the tracked languages trend over time.

For every quarter, each language's pushers are divided by the pushers of all
languages of the same type, giving its share in percent. The tracked languages
are drawn as lines, and labeled languages get their first and last share plus
their name annotated on the chart.

Examples:
  # Chart the defaults to language_trends.png
  langtrends report

  # A narrower window with fewer languages
  langtrends report --start-year 2018 --end-year 2022 --languages Python,Go --labeled Python --colors "#2ecc71,#00add8"

  # Print the per-language summary as well
  langtrends report --output text

  # Export the trend points for further analysis
  langtrends report --output parquet --output-file trends.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}
