package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/adammck/maint/pkg/acl"
	"github.com/adammck/maint/pkg/api"
	"github.com/adammck/maint/pkg/config"
	"github.com/adammck/maint/pkg/discovery"
	"github.com/adammck/maint/pkg/metrics"
	"github.com/adammck/maint/pkg/persister"
	"github.com/adammck/maint/pkg/persister/memory"
	"github.com/adammck/maint/pkg/roster"
	"github.com/adammck/maint/pkg/tracker"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	hv1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	aclconsul "github.com/adammck/maint/pkg/acl/consul"
	consuldisc "github.com/adammck/maint/pkg/discovery/consul"
	buntpers "github.com/adammck/maint/pkg/persister/bunt"
	consulpers "github.com/adammck/maint/pkg/persister/consul"
	consulapi "github.com/hashicorp/consul/api"
)

// The name which the tracker registers itself under in Consul.
const serviceName = "maint"

type Controller struct {
	cfg config.Config
	log logrus.FieldLogger

	srv  *grpc.Server
	http *http.Server
	disc discovery.Discoverable // nil unless discovery is consul
	rost *roster.Roster
	trk  *tracker.Tracker

	// Called at shutdown, to release the persister.
	closePers func() error
}

func New(cfg config.Config, addrPub string, log logrus.FieldLogger) (*Controller, error) {
	srv := grpc.NewServer()

	// Register reflection service, so client can introspect (for debugging).
	reflection.Register(srv)

	ccfg := consulapi.DefaultConfig()
	if cfg.Consul.Address != "" {
		ccfg.Address = cfg.Consul.Address
	}

	// Doesn't connect until used, so it's fine to create even if no consul
	// backends are configured.
	client, err := consulapi.NewClient(ccfg)
	if err != nil {
		return nil, err
	}

	var disc discovery.Discoverable
	if cfg.Discovery.Backend == "consul" {
		// Also registers the health service.
		d, err := consuldisc.New(serviceName, addrPub, client, srv)
		if err != nil {
			return nil, err
		}
		disc = d
	} else {
		hs := health.NewServer()
		hs.SetServingStatus("", hv1.HealthCheckResponse_SERVING)
		hv1.RegisterHealthServer(srv, hs)
	}

	var pers persister.Persister
	closePers := func() error { return nil }

	switch cfg.Storage.Backend {
	case "consul":
		pers = consulpers.New(client, cfg.Storage.Prefix, log)
	case "bunt":
		bp, err := buntpers.Open(cfg.Storage.Path, cfg.Storage.Prefix, log)
		if err != nil {
			return nil, err
		}
		pers = bp
		closePers = bp.Close
	case "memory":
		log.Warn("using in-memory storage; requests will not survive a restart")
		pers = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}

	var checker acl.Checker
	switch cfg.ACL.Source {
	case "consul":
		checker = aclconsul.New(client, cfg.ACL.Key, cfg.ACL.DefaultAction)
	default:
		checker = cfg.Policy()
	}

	rost := roster.New(disc, cfg.Discovery.Service, pers, clockwork.NewRealClock(), log)

	for _, h := range cfg.Hosts {
		if err := rost.CreateHost(h); err != nil {
			return nil, err
		}
	}

	for _, n := range cfg.Nodes {
		if _, err := rost.Register(api.NodeID(n.ID), n.Host); err != nil {
			return nil, err
		}
	}

	// This loads the requests from storage, so will fail if the persister
	// (e.g. Consul) isn't available.
	if err := rost.Load(); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	met, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	gate := acl.NewGate(checker, cfg.ACL.Superusers, log)
	trk := tracker.New(cfg, rost, gate, met, log)
	trk.Register(srv)

	var hs *http.Server
	if cfg.HTTPAddr != "" {
		hs = &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: trk.Handler(reg),
		}
	}

	return &Controller{
		cfg:       cfg,
		log:       log,
		srv:       srv,
		http:      hs,
		disc:      disc,
		rost:      rost,
		trk:       trk,
		closePers: closePers,
	}, nil
}

func (c *Controller) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", c.cfg.ListenAddr)
	if err != nil {
		return err
	}

	c.log.WithField("addr", c.cfg.ListenAddr).Info("listening")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.srv.Serve(lis)
	})

	if c.http != nil {
		g.Go(func() error {
			c.log.WithField("addr", c.http.Addr).Info("serving http")
			err := c.http.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	if c.disc != nil {
		// Make the tracker discoverable.
		if err := c.disc.Start(); err != nil {
			c.srv.Stop()
			return err
		}

		// Keep the node/host map up to date.
		g.Go(func() error {
			c.rost.Run(ctx, c.cfg.Discovery.Interval)
			return nil
		})
	}

	// Block until context is cancelled, indicating that caller wants shutdown,
	// or until one of the servers fails.
	<-ctx.Done()
	c.log.Info("shutting down")

	if c.disc != nil {
		// Remove ourselves from service discovery first, so clients stop
		// sending new requests.
		if err := c.disc.Stop(); err != nil {
			c.log.WithError(err).Warn("error deregistering")
		}
	}

	// Let in-flight incoming RPCs finish and then stop.
	c.srv.GracefulStop()

	if c.http != nil {
		if err := c.http.Shutdown(context.Background()); err != nil {
			c.log.WithError(err).Warn("error stopping http server")
		}
	}

	err = g.Wait()

	if cerr := c.closePers(); cerr != nil {
		c.log.WithError(cerr).Warn("error closing storage")
	}

	return err
}
