package main

import (
	"fmt"
	"strconv"

	"github.com/adammck/maint/pkg/rpc"
	"github.com/spf13/cobra"
)

type cmdSet struct {
	common *CmdControl
}

func (c *cmdSet) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "set <NODE> <ATTRIBUTE> <true|false>",
		Short: "Set a legacy maintenance flag (e.g. banned) on a node.",
		Long: "Set a legacy maintenance flag on a node. Setting a flag to true replaces\n" +
			"every request of its kind with a single one; false removes them all.\n" +
			"Prefer add and remove.",
		Args: cobra.ExactArgs(3),
		RunE: c.Run,
	}
}

func (c *cmdSet) Run(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseBool(args[2])
	if err != nil {
		return err
	}

	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	_, err = client.SetAttribute(ctx, &rpc.SetAttributeRequest{
		Node:      args[0],
		Attribute: args[1],
		Value:     value,
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", args[1], err)
	}

	return nil
}

type cmdForbid struct {
	common *CmdControl
}

func (c *cmdForbid) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "forbid-legacy-writes <true|false>",
		Short: "Forbid or allow writes to the legacy maintenance flags.",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Run,
	}
}

func (c *cmdForbid) Run(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseBool(args[0])
	if err != nil {
		return err
	}

	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	_, err = client.SetForbidLegacyWrites(ctx, &rpc.SetForbidLegacyWritesRequest{Value: value})
	return err
}
