package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var assetsHeight uint32

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Query the assets service",
}

var assetsGetCmd = &cobra.Command{
	Use:   "get ID...",
	Short: "Show the quantity of the given assets",
	Long: `Show the circulating quantity of each asset id. With --height only assets
updated at or above that height are returned.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssetsGet,
}

func init() {
	rootCmd.AddCommand(assetsCmd)
	assetsCmd.AddCommand(assetsGetCmd)

	assetsGetCmd.Flags().Uint32Var(&assetsHeight, "height", 0, "only assets updated at or above this height")
}

func runAssetsGet(cmd *cobra.Command, args []string) error {
	client, err := requireAssets()
	if err != nil {
		return err
	}
	if err := validateAssetIDs(args); err != nil {
		return err
	}

	var height *uint32
	if cmd.Flags().Changed("height") {
		height = &assetsHeight
	}

	resp, err := client.Get(cmd.Context(), args, height)
	if err != nil {
		return fmt.Errorf("failed to get assets: %w", err)
	}

	list := resp.Assets()
	if outputJSON {
		return printJSON(list)
	}
	if len(list) == 0 {
		fmt.Println(notFoundMark("No assets found."))
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, a := range list {
		rows = append(rows, []string{a.ID, strconv.FormatInt(a.Quantity, 10)})
	}
	printTable(os.Stdout, []string{"Asset", "Quantity"}, rows)
	return nil
}
