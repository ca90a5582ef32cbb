package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mr-tron/base58"
	"github.com/olekukonko/tablewriter"
	dto "github.com/prometheus/client_model/go"
)

const (
	addressLength  = 26
	addressVersion = 1
	digestLength   = 32
)

var (
	okMark       = color.New(color.FgGreen).SprintFunc()
	notFoundMark = color.New(color.FgYellow).SprintFunc()
	errorMark    = color.New(color.FgRed).SprintFunc()
)

// validateAddress checks that s is a base58 Waves address of any chain
func validateAddress(s string) error {
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(raw) != addressLength || raw[0] != addressVersion {
		return fmt.Errorf("invalid address %q: not a Waves address", s)
	}
	return nil
}

// validateID checks that s is a base58 transaction or asset id
func validateID(kind, s string) error {
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", kind, s, err)
	}
	if len(raw) != digestLength {
		return fmt.Errorf("invalid %s %q: expected %d bytes, got %d", kind, s, digestLength, len(raw))
	}
	return nil
}

// validateAssetIDs accepts WAVES or base58 asset ids
func validateAssetIDs(ids []string) error {
	for _, id := range ids {
		if id == "WAVES" {
			continue
		}
		if err := validateID("asset id", id); err != nil {
			return err
		}
	}
	return nil
}

// readInput reads a file, or stdin when path is "-"
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func printTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(rows)
	table.Render()
}

type counterLine struct {
	name   string
	labels string
	value  float64
}

// summarizeCounters flattens gathered counter families into sorted lines
func summarizeCounters(families []*dto.MetricFamily) []counterLine {
	var lines []counterLine
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(pairs)
			lines = append(lines, counterLine{
				name:   mf.GetName(),
				labels: strings.Join(pairs, ","),
				value:  m.GetCounter().GetValue(),
			})
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].name != lines[j].name {
			return lines[i].name < lines[j].name
		}
		return lines[i].labels < lines[j].labels
	})
	return lines
}
