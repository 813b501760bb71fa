package main

import (
	"fmt"
	"io"
	"os"

	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/rpc"
	"github.com/spf13/cobra"
)

type cmdRemove struct {
	common *CmdControl

	flagIDs  []string
	flagMine bool
	flagAll  bool
}

func (c *cmdRemove) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <cluster_node|host> <ID>",
		Short: "Remove maintenance requests from a node, or every node on a host.",
		Args:  cobra.ExactArgs(2),
		RunE:  c.Run,
	}

	cmd.Flags().StringSliceVar(&c.flagIDs, "id", nil, "Remove only the requests with these IDs.")
	cmd.Flags().BoolVar(&c.flagMine, "mine", false, "Remove only requests added by the current user.")
	cmd.Flags().BoolVar(&c.flagAll, "all", false, "Remove every request.")
	return cmd
}

func (c *cmdRemove) Run(cmd *cobra.Command, args []string) error {
	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	res, err := client.RemoveMaintenance(ctx, &rpc.RemoveMaintenanceRequest{
		TargetType: args[0],
		TargetID:   args[1],
		IDs:        c.flagIDs,
		Mine:       c.flagMine,
		All:        c.flagAll,
	})
	if err != nil {
		return fmt.Errorf("failed to remove maintenance: %w", err)
	}

	return renderRemoved(os.Stdout, res.Removed)
}

// renderRemoved writes one line per kind which had requests removed, in kind
// order, and then the total.
func renderRemoved(w io.Writer, removed map[string]int) error {
	c, err := api.CountsFromNames(removed)
	if err != nil {
		return err
	}

	if c.Total() == 0 {
		fmt.Fprintln(w, "nothing removed")
		return nil
	}

	for _, k := range api.Kinds {
		if n := c[k]; n > 0 {
			fmt.Fprintf(w, "%s: %d\n", k, n)
		}
	}

	fmt.Fprintf(w, "total: %d\n", c.Total())
	return nil
}
