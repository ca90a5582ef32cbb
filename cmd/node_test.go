package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/wxapis/node"
)

// captureStdout runs fn and returns what it printed
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	runErr := fn()
	os.Stdout = orig
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

func useNotFoundNode(t *testing.T) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, err := node.NewClient(server.URL)
	require.NoError(t, err)

	prevClient, prevJSON, prevNoColor := nodeClient, outputJSON, color.NoColor
	nodeClient = client
	color.NoColor = true
	t.Cleanup(func() {
		nodeClient, outputJSON, color.NoColor = prevClient, prevJSON, prevNoColor
	})
}

func TestNotFoundOutput(t *testing.T) {
	const address = "3P8qJyxUqizCWWtEn2zsLZVPzZAjdNGppB1"
	const assetID = "DG2xFkPdDwKUoBkzGAhQtLpSGzfXLiCYPEzeKH2Ad24p"

	commands := []struct {
		name string
		run  func(cmd *cobra.Command, args []string) error
		args []string
		text string
	}{
		{name: "balance", run: runNodeBalance, args: []string{address}, text: "not found: " + address},
		{name: "assets balance", run: runNodeAssetsBalance, args: []string{address, assetID}, text: "not found: " + address},
		{name: "asset details", run: runNodeAssetDetails, args: []string{assetID}, text: "No asset details found."},
	}

	for _, tc := range commands {
		t.Run(tc.name+" json", func(t *testing.T) {
			useNotFoundNode(t)
			outputJSON = true

			cmd := &cobra.Command{}
			cmd.SetContext(context.Background())
			out, err := captureStdout(t, func() error { return tc.run(cmd, tc.args) })
			require.NoError(t, err)
			assert.Equal(t, "null", strings.TrimSpace(out))
		})

		t.Run(tc.name+" text", func(t *testing.T) {
			useNotFoundNode(t)
			outputJSON = false

			cmd := &cobra.Command{}
			cmd.SetContext(context.Background())
			out, err := captureStdout(t, func() error { return tc.run(cmd, tc.args) })
			require.NoError(t, err)
			assert.Contains(t, out, tc.text)
			assert.NotContains(t, out, "null")
		})
	}
}
