package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/wxapis/models"
	"github.com/s0up4200/wxapis/statesvc"
)

// maxConcurrentLookups bounds parallel point lookups against the state service
const maxConcurrentLookups = 8

var (
	stateHeight    uint32
	stateTimestamp string
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Query the state service",
}

var stateGetCmd = &cobra.Command{
	Use:   "get ADDRESS KEY...",
	Short: "Read data entries of an account",
	Long: `Read data entries of an account, optionally as of a past height or
block timestamp. Keys are fetched concurrently.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runStateGet,
}

var stateSearchCmd = &cobra.Command{
	Use:   "search FILE|-",
	Short: "Search data entries with a JSON query",
	Long:  `Search data entries with a state service query document read from FILE, or from stdin with "-".`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStateSearch,
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateGetCmd)
	stateCmd.AddCommand(stateSearchCmd)

	stateGetCmd.Flags().Uint32Var(&stateHeight, "height", 0, "read state as of this height")
	stateGetCmd.Flags().StringVar(&stateTimestamp, "timestamp", "", "read state as of this block timestamp")
	stateGetCmd.MarkFlagsMutuallyExclusive("height", "timestamp")
}

func runStateGet(cmd *cobra.Command, args []string) error {
	client, err := requireState()
	if err != nil {
		return err
	}
	address, keys := args[0], args[1:]
	if err := validateAddress(address); err != nil {
		return err
	}

	var peg *statesvc.HistoryPeg
	switch {
	case cmd.Flags().Changed("height"):
		peg = statesvc.AtHeight(stateHeight)
	case stateTimestamp != "":
		peg = statesvc.AtTimestamp(stateTimestamp)
	}

	entries := make([]*models.DataEntry, len(keys))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentLookups)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			entry, err := client.GetState(ctx, address, key, peg)
			if err != nil {
				return fmt.Errorf("failed to get %q: %w", key, err)
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if outputJSON {
		return printJSON(entries)
	}

	rows := make([][]string, 0, len(keys))
	for i, key := range keys {
		if entries[i] == nil {
			rows = append(rows, []string{key, "", notFoundMark("not found")})
			continue
		}
		rows = append(rows, []string{key, entries[i].Value.Type(), formatDataValue(entries[i].Value)})
	}
	fmt.Printf("Address: %s (%s)\n", address, peg)
	printTable(os.Stdout, []string{"Key", "Type", "Value"}, rows)
	return nil
}

func runStateSearch(cmd *cobra.Command, args []string) error {
	client, err := requireState()
	if err != nil {
		return err
	}

	raw, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("failed to read query: %w", err)
	}
	var query json.RawMessage
	if err := json.Unmarshal(raw, &query); err != nil {
		return fmt.Errorf("query in %s is not valid JSON: %w", args[0], err)
	}

	entries, err := client.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("failed to search: %w", err)
	}
	if outputJSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println(notFoundMark("No entries found."))
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Address, e.Key, e.Value.Type(), formatDataValue(e.Value)})
	}
	printTable(os.Stdout, []string{"Address", "Key", "Type", "Value"}, rows)
	fmt.Printf("\n%s %d entries\n", okMark("✓"), len(entries))
	return nil
}
