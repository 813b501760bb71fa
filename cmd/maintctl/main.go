package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/adammck/maint/pkg/rpc"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CmdControl holds the flags shared by every subcommand.
type CmdControl struct {
	FlagAddr    string
	FlagUser    string
	FlagTimeout time.Duration
}

// client dials the tracker, and returns a context which carries the user and
// the timeout. Call the returned func when done.
func (c *CmdControl) client() (*rpc.Client, context.Context, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.FlagTimeout)

	conn, err := grpc.DialContext(ctx, c.FlagAddr, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithBlock())
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("error dialing tracker: %w", err)
	}

	done := func() {
		conn.Close()
		cancel()
	}

	return rpc.NewClient(conn), rpc.WithUser(ctx, c.FlagUser), done, nil
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(b))
	return nil
}

func main() {
	common := &CmdControl{}

	app := &cobra.Command{
		Use:           "maintctl",
		Short:         "Command line client for the maintenance tracker.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app.PersistentFlags().StringVar(&common.FlagAddr, "addr", "localhost:8000", "Tracker address.")
	app.PersistentFlags().StringVarP(&common.FlagUser, "user", "u", os.Getenv("USER"), "User to act as.")
	app.PersistentFlags().DurationVar(&common.FlagTimeout, "timeout", 10*time.Second, "How long to wait for the tracker.")

	add := cmdAdd{common: common}
	app.AddCommand(add.Command())

	remove := cmdRemove{common: common}
	app.AddCommand(remove.Command())

	get := cmdGet{common: common}
	app.AddCommand(get.Command())

	set := cmdSet{common: common}
	app.AddCommand(set.Command())

	nodes := cmdNodes{common: common}
	app.AddCommand(nodes.Command())

	forbid := cmdForbid{common: common}
	app.AddCommand(forbid.Command())

	host := cmdHost{common: common}
	app.AddCommand(host.Command())

	node := cmdNode{common: common}
	app.AddCommand(node.Command())

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
