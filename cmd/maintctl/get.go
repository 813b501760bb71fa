package main

import (
	"fmt"

	"github.com/adammck/maint/pkg/rpc"
	"github.com/spf13/cobra"
)

type cmdGet struct {
	common *CmdControl
}

func (c *cmdGet) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "get <NODE> [ATTRIBUTE]",
		Short: "Show the maintenance attributes of a node.",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  c.Run,
	}
}

func (c *cmdGet) Run(cmd *cobra.Command, args []string) error {
	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	res, err := client.GetAttributes(ctx, &rpc.GetAttributesRequest{Node: args[0]})
	if err != nil {
		return fmt.Errorf("failed to get attributes: %w", err)
	}

	if len(args) == 1 {
		return printJSON(res.Attributes)
	}

	v, err := res.Attributes.Get(args[1])
	if err != nil {
		return err
	}

	return printJSON(v)
}
