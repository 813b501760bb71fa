package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/rpc"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type cmdNodes struct {
	common *CmdControl

	flagHost string
}

func (c *cmdNodes) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List nodes and their maintenance flags.",
		Args:  cobra.NoArgs,
		RunE:  c.Run,
	}

	cmd.Flags().StringVar(&c.flagHost, "host", "", "Only list nodes on this host.")
	return cmd
}

func (c *cmdNodes) Run(cmd *cobra.Command, args []string) error {
	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	res, err := client.ListNodes(ctx, &rpc.ListNodesRequest{Host: c.flagHost})
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}

	renderNodes(os.Stdout, res.Nodes)
	return nil
}

// renderNodes writes a table with one row per node, listing which flags are
// set and how many requests it has.
func renderNodes(w io.Writer, nodes []api.NodeAttributes) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Node", "Host", "Flags", "Requests"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})

	for _, n := range nodes {
		table.Append([]string{
			n.ID,
			n.Host,
			flagList(n.Flags()),
			strconv.Itoa(len(n.MaintenanceRequests)),
		})
	}

	table.Render()
}

// flagList returns the names of the flags which are set, or "-" if none are.
func flagList(f api.Flags) string {
	if !f.Any() {
		return "-"
	}

	names := []string{}
	for _, k := range api.Kinds {
		if f.Get(k) {
			names = append(names, k.Flag())
		}
	}

	return strings.Join(names, ",")
}
