package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/adammck/maint/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type cmdDaemon struct {
	flagConfig   string
	flagAddr     string
	flagPubAddr  string
	flagHTTPAddr string
	flagLogLevel string
	flagLogJSON  bool
}

func (c *cmdDaemon) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "maintd",
		Short:         "Track maintenance requests on cluster nodes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.Run,
	}

	cmd.Flags().StringVarP(&c.flagConfig, "config", "c", "", "Path to the YAML config file.")
	cmd.Flags().StringVar(&c.flagAddr, "addr", "", "Address to start the gRPC server on (overrides config).")
	cmd.Flags().StringVar(&c.flagPubAddr, "pub-addr", "", "Address for others to reach this (default: same as --addr).")
	cmd.Flags().StringVar(&c.flagHTTPAddr, "http-addr", "", "Address to start the HTTP server on (overrides config).")
	cmd.Flags().StringVar(&c.flagLogLevel, "log-level", "info", "Minimum level to log at.")
	cmd.Flags().BoolVar(&c.flagLogJSON, "log-json", false, "Log in JSON rather than text.")

	return cmd
}

func (c *cmdDaemon) Run(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(c.flagLogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	if c.flagLogJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	cfg := config.Default()
	if c.flagConfig != "" {
		cfg, err = config.Load(c.flagConfig)
		if err != nil {
			return err
		}
	}

	if c.flagAddr != "" {
		cfg.ListenAddr = c.flagAddr
	}
	if c.flagHTTPAddr != "" {
		cfg.HTTPAddr = c.flagHTTPAddr
	}

	addrPub := c.flagPubAddr
	if addrPub == "" {
		addrPub = cfg.ListenAddr
	}

	ctrl, err := New(cfg, addrPub, log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return ctrl.Run(ctx)
}

func main() {
	c := &cmdDaemon{}
	if err := c.Command().Execute(); err != nil {
		logrus.Fatalf("Error: %s", err)
	}
}
