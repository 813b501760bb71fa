package main

import (
	"fmt"
	"os"

	"github.com/adammck/maint/pkg/rpc"
	"github.com/spf13/cobra"
)

type cmdHost struct {
	common *CmdControl
}

func (c *cmdHost) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Create or remove hosts. Superusers only.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <HOST>",
		Short: "Register a host, so that it can be targeted before it has any nodes.",
		Args:  cobra.ExactArgs(1),
		RunE:  c.RunCreate,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <HOST>",
		Short: "Unregister a host. Fails while any node is on it.",
		Args:  cobra.ExactArgs(1),
		RunE:  c.RunRemove,
	})

	return cmd
}

func (c *cmdHost) RunCreate(cmd *cobra.Command, args []string) error {
	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	_, err = client.CreateHost(ctx, &rpc.CreateHostRequest{Host: args[0]})
	if err != nil {
		return fmt.Errorf("failed to create host: %w", err)
	}

	return nil
}

func (c *cmdHost) RunRemove(cmd *cobra.Command, args []string) error {
	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	_, err = client.RemoveHost(ctx, &rpc.RemoveHostRequest{Host: args[0]})
	if err != nil {
		return fmt.Errorf("failed to remove host: %w", err)
	}

	return nil
}

type cmdNode struct {
	common *CmdControl
}

func (c *cmdNode) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Move or remove nodes. Superusers only.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-host <NODE> <HOST>",
		Short: "Move a node to another host. Discovery may move it back.",
		Args:  cobra.ExactArgs(2),
		RunE:  c.RunSetHost,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <NODE>",
		Short: "Forget a node, and destroy all of its maintenance requests.",
		Args:  cobra.ExactArgs(1),
		RunE:  c.RunRemove,
	})

	return cmd
}

func (c *cmdNode) RunSetHost(cmd *cobra.Command, args []string) error {
	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	res, err := client.SetHost(ctx, &rpc.SetHostRequest{Node: args[0], Host: args[1]})
	if err != nil {
		return fmt.Errorf("failed to set host: %w", err)
	}

	fmt.Printf("%s: %q -> %q\n", args[0], res.Previous, args[1])
	return nil
}

func (c *cmdNode) RunRemove(cmd *cobra.Command, args []string) error {
	client, ctx, done, err := c.common.client()
	if err != nil {
		return err
	}
	defer done()

	res, err := client.RemoveNode(ctx, &rpc.RemoveNodeRequest{Node: args[0]})
	if err != nil {
		return fmt.Errorf("failed to remove node: %w", err)
	}

	return renderRemoved(os.Stdout, res.Removed)
}
