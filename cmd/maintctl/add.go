package main

import (
	"fmt"

	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/rpc"
	"github.com/spf13/cobra"
)

type cmdAdd struct {
	common *CmdControl

	flagComment string
}

func (c *cmdAdd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <cluster_node|host> <ID> <KIND>",
		Short: "Add a maintenance request to a node, or every node on a host.",
		Args:  cobra.ExactArgs(3),
		RunE:  c.Run,
	}

	cmd.Flags().StringVarP(&c.flagComment, "comment", "m", "", "Why the maintenance is needed.")
	return cmd
}

func (c *cmdAdd) Run(cmd *cobra.Command, args []string) error {
	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	res, err := client.AddMaintenance(ctx, &rpc.AddMaintenanceRequest{
		TargetType: args[0],
		TargetID:   args[1],
		Kind:       args[2],
		Comment:    c.flagComment,
	})
	if err != nil {
		return fmt.Errorf("failed to add maintenance: %w", err)
	}

	id, err := api.ParseRequestID(res.ID)
	if err != nil {
		return err
	}

	if id.IsZero() {
		fmt.Printf("added %s to every node on %s\n", args[2], args[1])
		return nil
	}

	fmt.Println(id)
	return nil
}
