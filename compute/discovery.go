// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service under which workers advertise.
const ServiceType = "_inkworker._tcp"

// Endpoint is a worker found by Browse.
type Endpoint struct {
	Instance string
	Host     string
	Addr     net.IP
	Port     int
}

// URL returns the WebSocket URL of the worker handler.
func (e Endpoint) URL() string {
	return "ws://" + net.JoinHostPort(e.Addr.String(), strconv.Itoa(e.Port)) + HandlerPath
}

// Advertise announces a worker listening on port. An empty instance uses
// the host name. Shut the returned server down to withdraw the announcement.
func Advertise(instance string, port int) (*mdns.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("compute: hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil,
		[]string{"ink simplification worker", "path=" + HandlerPath})
	if err != nil {
		return nil, fmt.Errorf("compute: mdns service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("compute: mdns server: %w", err)
	}
	return server, nil
}

// Browse looks for advertised workers for at most timeout, or until ctx
// expires if that is sooner. Only IPv4 endpoints are returned.
func Browse(ctx context.Context, timeout time.Duration) ([]Endpoint, error) {
	if d, ok := ctx.Deadline(); ok {
		if left := time.Until(d); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	entries := make(chan *mdns.ServiceEntry, 8)
	var (
		found []Endpoint
		wg    sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		seen := make(map[string]bool)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			key := net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port))
			if seen[key] {
				continue
			}
			seen[key] = true
			found = append(found, Endpoint{Instance: e.Name, Host: e.Host, Addr: e.AddrV4, Port: e.Port})
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	wg.Wait()

	if err != nil {
		return nil, fmt.Errorf("compute: mdns query: %w", err)
	}
	return found, nil
}
