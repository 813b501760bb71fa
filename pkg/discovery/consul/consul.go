package consul

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/consul/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	hv1 "google.golang.org/grpc/health/grpc_health_v1"

	mapi "github.com/adammck/maint/pkg/api"
)

type Discovery struct {
	svcName string
	addrPub string
	ident   string
	consul  *api.Client
	srv     *grpc.Server
	hs      *health.Server
}

func getIdent(addr string) (string, error) {
	host, sPort, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	}
	nPort, err := strconv.Atoi(sPort)
	if err != nil {
		return "", err
	}

	if host == "" || host == "localhost" || host == "127.0.0.1" {
		return fmt.Sprintf("%d", nPort), nil
	}

	return fmt.Sprintf("%s:%d", host, nPort), nil
}

// New returns a Discovery which registers the tracker itself under svcName,
// with a gRPC health check against srv, and can look up other services.
func New(serviceName, addrPub string, client *api.Client, srv *grpc.Server) (*Discovery, error) {
	ident, err := getIdent(addrPub)
	if err != nil {
		return nil, err
	}

	d := &Discovery{
		svcName: serviceName,
		addrPub: addrPub,
		ident:   ident,

		consul: client,
		srv:    srv,
		hs:     health.NewServer(),
	}

	d.hs.SetServingStatus("", hv1.HealthCheckResponse_SERVING)
	hv1.RegisterHealthServer(d.srv, d.hs)

	return d, nil
}

func (d *Discovery) Start() error {
	def := &api.AgentServiceRegistration{
		Name: d.svcName,
		ID:   d.ident,

		Check: &api.AgentServiceCheck{
			GRPC: d.addrPub,

			// How long to wait between checks.
			Interval: (3 * time.Second).String(),

			// How long to wait for a response before giving up.
			Timeout: (1 * time.Second).String(),

			// How long to wait after a service becomes critical (i.e. starts
			// returning error, unhealthy responses, or timing out) before
			// removing it from service discovery. Might actually take longer
			// than this because of Consul implementation.
			DeregisterCriticalServiceAfter: (10 * time.Second).String(),
		},
	}

	return d.consul.Agent().ServiceRegister(def)
}

func (d *Discovery) Stop() error {
	d.hs.Shutdown()
	return d.consul.Agent().ServiceDeregister(d.ident)
}

// Get returns every instance of the named service. The host of each remote is
// the address of the Consul node it's registered on, which is what nodes are
// grouped by, unless the service overrides it via the "host" meta key.
func (d *Discovery) Get(name string) ([]mapi.Remote, error) {
	res, _, err := d.consul.Catalog().Service(name, "", &api.QueryOptions{})
	if err != nil {
		return []mapi.Remote{}, err
	}

	output := make([]mapi.Remote, len(res))
	for i, r := range res {
		output[i] = mapi.Remote{
			Ident: r.ServiceID,
			Host:  r.Address, // https://github.com/hashicorp/consul/issues/2076
			Port:  r.ServicePort,
			Meta:  r.ServiceMeta,
		}
	}

	return output, nil
}
