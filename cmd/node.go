package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/s0up4200/wxapis/models"
	"github.com/s0up4200/wxapis/node"
)

// wavesDecimals is the number of decimals of the native token
const wavesDecimals = 8

var (
	stateChangesLimit  int
	stateChangesAfter  string
	stateChangesFilter string
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Query a Waves node",
}

var nodeHeightCmd = &cobra.Command{
	Use:   "height",
	Short: "Show the current blockchain height",
	Args:  cobra.NoArgs,
	RunE:  runNodeHeight,
}

var nodeDataCmd = &cobra.Command{
	Use:   "data ADDRESS KEY...",
	Short: "Read data entries of an account",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runNodeData,
}

var nodeEvaluateCmd = &cobra.Command{
	Use:   "evaluate DAPP EXPRESSION",
	Short: "Evaluate an expression against a dApp script",
	Args:  cobra.ExactArgs(2),
	RunE:  runNodeEvaluate,
}

var nodeBalanceCmd = &cobra.Command{
	Use:   "balance ADDRESS",
	Short: "Show the WAVES balance details of an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodeBalance,
}

var nodeAssetsBalanceCmd = &cobra.Command{
	Use:   "assets-balance ADDRESS ID...",
	Short: "Show asset balances of an address",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runNodeAssetsBalance,
}

var nodeAssetDetailsCmd = &cobra.Command{
	Use:   "asset-details ID...",
	Short: "Show details of issued assets",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNodeAssetDetails,
}

var nodeBroadcastCmd = &cobra.Command{
	Use:   "broadcast FILE|-",
	Short: "Broadcast a signed transaction",
	Long:  `Broadcast a signed transaction read as JSON from FILE, or from stdin with "-". The request is sent once.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runNodeBroadcast,
}

var nodeStateChangesCmd = &cobra.Command{
	Use:   "state-changes ADDRESS",
	Short: "List invoke state changes of an address",
	Long: `List invoke state changes of an address, newest first.

--filter takes a filter name from the config or an inline expression, e.g.
  --filter 'Function == "swap" and totalTransferred("WAVES") > 100000000'
  --filter 'hasKey("%s__price") and hasPrefixFold(Sender, "3p")'

Helpers: hasKey, dataValue, transferredTo, totalTransferred, daysSince,
daysAgo, parseDate, now, lower, upper, containsFold, hasPrefixFold, hasSuffixFold.`,
	Args: cobra.ExactArgs(1),
	RunE: runNodeStateChanges,
}

var nodeTxStateChangesCmd = &cobra.Command{
	Use:   "tx-state-changes TXID",
	Short: "Show the state changes of one transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodeTxStateChanges,
}

func init() {
	rootCmd.AddCommand(nodeCmd)
	nodeCmd.AddCommand(nodeHeightCmd)
	nodeCmd.AddCommand(nodeDataCmd)
	nodeCmd.AddCommand(nodeEvaluateCmd)
	nodeCmd.AddCommand(nodeBalanceCmd)
	nodeCmd.AddCommand(nodeAssetsBalanceCmd)
	nodeCmd.AddCommand(nodeAssetDetailsCmd)
	nodeCmd.AddCommand(nodeBroadcastCmd)
	nodeCmd.AddCommand(nodeStateChangesCmd)
	nodeCmd.AddCommand(nodeTxStateChangesCmd)

	nodeStateChangesCmd.Flags().IntVar(&stateChangesLimit, "limit", 100, "maximum number of transactions")
	nodeStateChangesCmd.Flags().StringVar(&stateChangesAfter, "after", "", "id of the last transaction of the previous page")
	nodeStateChangesCmd.Flags().StringVarP(&stateChangesFilter, "filter", "f", "", "filter name or expression")
}

func runNodeHeight(cmd *cobra.Command, args []string) error {
	client, err := requireNode()
	if err != nil {
		return err
	}

	h, err := client.LastHeight(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get height: %w", err)
	}
	if outputJSON {
		return printJSON(h)
	}
	fmt.Println(h.Height)
	return nil
}

func runNodeData(cmd *cobra.Command, args []string) error {
	client, err := requireNode()
	if err != nil {
		return err
	}
	address, keys := args[0], args[1:]
	if err := validateAddress(address); err != nil {
		return err
	}

	entries, err := client.DataEntries(cmd.Context(), address, keys)
	if err != nil {
		return fmt.Errorf("failed to get data entries: %w", err)
	}
	if outputJSON {
		return printJSON(entries)
	}

	found := make(map[string]node.DataEntryResponse, len(entries))
	for _, e := range entries {
		found[e.Key] = e
	}

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		e, ok := found[key]
		if !ok {
			rows = append(rows, []string{key, "", notFoundMark("not found")})
			continue
		}
		rows = append(rows, []string{key, e.Value.Type(), formatDataValue(e.Value)})
	}
	printTable(os.Stdout, []string{"Key", "Type", "Value"}, rows)
	return nil
}

func runNodeEvaluate(cmd *cobra.Command, args []string) error {
	client, err := requireNode()
	if err != nil {
		return err
	}
	if err := validateAddress(args[0]); err != nil {
		return err
	}

	resp, err := client.Evaluate(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to evaluate expression: %w", err)
	}
	if outputJSON {
		return printJSON(resp.Result)
	}
	fmt.Println(formatEvalValue(resp.Result))
	return nil
}

func runNodeBalance(cmd *cobra.Command, args []string) error {
	client, err := requireNode()
	if err != nil {
		return err
	}
	if err := validateAddress(args[0]); err != nil {
		return err
	}

	b, err := client.AddrBalanceDetails(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}
	if outputJSON {
		return printJSON(b)
	}
	if b == nil {
		fmt.Printf("%s %s\n", notFoundMark("not found:"), args[0])
		return nil
	}

	rows := [][]string{
		{"Regular", b.Regular.String(), wavesAmount(b.Regular)},
		{"Generating", b.Generating.String(), wavesAmount(b.Generating)},
		{"Available", b.Available.String(), wavesAmount(b.Available)},
		{"Effective", b.Effective.String(), wavesAmount(b.Effective)},
	}
	fmt.Printf("Address: %s\n", b.Address)
	printTable(os.Stdout, []string{"Balance", "Wavelets", "WAVES"}, rows)
	return nil
}

func runNodeAssetsBalance(cmd *cobra.Command, args []string) error {
	client, err := requireNode()
	if err != nil {
		return err
	}
	address, ids := args[0], args[1:]
	if err := validateAddress(address); err != nil {
		return err
	}
	if err := validateAssetIDs(ids); err != nil {
		return err
	}

	b, err := client.AssetsBalance(cmd.Context(), address, ids)
	if err != nil {
		return fmt.Errorf("failed to get asset balances: %w", err)
	}
	if outputJSON {
		return printJSON(b)
	}
	if b == nil {
		fmt.Printf("%s %s\n", notFoundMark("not found:"), address)
		return nil
	}

	rows := make([][]string, 0, len(b.Balances))
	for _, item := range b.Balances {
		quantity := ""
		if item.Quantity != nil {
			quantity = strconv.FormatUint(*item.Quantity, 10)
		}
		rows = append(rows, []string{item.AssetID, strconv.FormatUint(item.Balance, 10), quantity})
	}
	printTable(os.Stdout, []string{"Asset", "Balance", "Quantity"}, rows)
	return nil
}

func runNodeAssetDetails(cmd *cobra.Command, args []string) error {
	client, err := requireNode()
	if err != nil {
		return err
	}
	if err := validateAssetIDs(args); err != nil {
		return err
	}

	details, err := client.AssetsDetails(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to get asset details: %w", err)
	}
	if outputJSON {
		return printJSON(details)
	}
	if details == nil {
		fmt.Println(notFoundMark("No asset details found."))
		return nil
	}

	rows := make([][]string, 0, len(details))
	for _, d := range details {
		if d.IsError() {
			rows = append(rows, []string{"", "", "", errorMark(fmt.Sprintf("error %d: %s", d.Err.Error, d.Err.Message))})
			continue
		}
		rows = append(rows, []string{d.Item.AssetID, d.Item.Name, strconv.Itoa(int(d.Item.Decimals)), d.Item.Description})
	}
	printTable(os.Stdout, []string{"Asset", "Name", "Decimals", "Description"}, rows)
	return nil
}

func runNodeBroadcast(cmd *cobra.Command, args []string) error {
	client, err := requireNode()
	if err != nil {
		return err
	}

	tx, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("failed to read transaction: %w", err)
	}
	if !json.Valid(tx) {
		return fmt.Errorf("transaction in %s is not valid JSON", args[0])
	}

	resp, err := client.TransactionBroadcast(cmd.Context(), string(tx))
	if err != nil {
		return fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	logger.Info().Msg("Transaction accepted by node")
	if outputJSON {
		fmt.Println(string(resp))
		return nil
	}

	var accepted struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &accepted); err == nil && accepted.ID != "" {
		fmt.Printf("%s Broadcast %s\n", okMark("✓"), accepted.ID)
		return nil
	}
	fmt.Println(string(resp))
	return nil
}

func runNodeStateChanges(cmd *cobra.Command, args []string) error {
	client, err := requireNode()
	if err != nil {
		return err
	}
	if err := validateAddress(args[0]); err != nil {
		return err
	}
	if stateChangesLimit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	var cursor *string
	if stateChangesAfter != "" {
		if err := validateID("transaction id", stateChangesAfter); err != nil {
			return err
		}
		cursor = &stateChangesAfter
	}

	changes, err := client.StateChangesByAddress(cmd.Context(), args[0], stateChangesLimit, cursor)
	if err != nil {
		return fmt.Errorf("failed to get state changes: %w", err)
	}
	// A full page means there may be more
	nextCursor := ""
	if len(changes) > 0 && len(changes) == stateChangesLimit {
		nextCursor = changes[len(changes)-1].TransactionID
	}

	if stateChangesFilter != "" {
		f, err := filters.Resolve(stateChangesFilter)
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
		logger.Debug().Str("filter", f.Expression()).Int("records", len(changes)).Msg("Filtering state changes")

		changes, err = filters.Select(cmd.Context(), f, changes)
		if err != nil {
			return fmt.Errorf("failed to apply filter: %w", err)
		}
	}

	if outputJSON {
		return printJSON(changes)
	}

	if len(changes) == 0 {
		fmt.Println(notFoundMark("No state changes found."))
	} else {
		printStateChanges(changes)
	}
	if nextCursor != "" {
		fmt.Printf("\nNext page: --after %s\n", nextCursor)
	}
	return nil
}

func runNodeTxStateChanges(cmd *cobra.Command, args []string) error {
	client, err := requireNode()
	if err != nil {
		return err
	}
	if err := validateID("transaction id", args[0]); err != nil {
		return err
	}

	sc, err := client.StateChangesByTransactionID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get state changes: %w", err)
	}
	if outputJSON {
		return printJSON(sc)
	}

	printStateChanges([]node.StateChanges{*sc})
	if sc.StateChanges == nil {
		return nil
	}

	if len(sc.StateChanges.Data) > 0 {
		fmt.Println("\nData:")
		rows := make([][]string, 0, len(sc.StateChanges.Data))
		for _, d := range sc.StateChanges.Data {
			rows = append(rows, []string{d.Key, d.Value.Type(), formatDataValue(d.Value)})
		}
		printTable(os.Stdout, []string{"Key", "Type", "Value"}, rows)
	}
	if len(sc.StateChanges.Transfers) > 0 {
		fmt.Println("\nTransfers:")
		rows := make([][]string, 0, len(sc.StateChanges.Transfers))
		for _, t := range sc.StateChanges.Transfers {
			asset := node.WavesAssetID
			if t.Asset != nil {
				asset = *t.Asset
			}
			rows = append(rows, []string{t.Address, asset, strconv.FormatInt(t.Amount, 10)})
		}
		printTable(os.Stdout, []string{"Recipient", "Asset", "Amount"}, rows)
	}
	return nil
}

func printStateChanges(changes []node.StateChanges) {
	rows := make([][]string, 0, len(changes))
	for _, sc := range changes {
		function := ""
		if sc.Call != nil {
			function = sc.Call.Function
		}
		writes, transfers := 0, 0
		if sc.StateChanges != nil {
			writes = len(sc.StateChanges.Data)
			transfers = len(sc.StateChanges.Transfers)
		}
		rows = append(rows, []string{
			sc.TransactionID,
			strconv.Itoa(int(sc.Height)),
			function,
			strconv.Itoa(writes),
			strconv.Itoa(transfers),
		})
	}
	printTable(os.Stdout, []string{"Transaction", "Height", "Function", "Writes", "Transfers"}, rows)
}

func wavesAmount(wavelets decimal.Decimal) string {
	return wavelets.Shift(-wavesDecimals).StringFixed(wavesDecimals)
}

func formatDataValue(v models.Value) string {
	return fmt.Sprint(v)
}

func formatEvalValue(v node.Value) string {
	switch val := v.(type) {
	case node.ArrayValue:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatEvalValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case node.TupleValue:
		names := make([]string, 0, len(val))
		for name := range val {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+": "+formatEvalValue(val[name]))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case node.IntegerEntryValue:
		return fmt.Sprintf("IntegerEntry(%q, %d)", val.Key, val.Value)
	case node.StringValue:
		return strconv.Quote(string(val))
	case node.IntValue:
		return strconv.FormatInt(int64(val), 10)
	default:
		return fmt.Sprint(v)
	}
}
