//----------------------------------------------------------------------
// This file is part of dtnsim.
//
// dtnsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// dtnsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//----------------------------------------------------------------------

package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dtnsim/core"
	"dtnsim/render"
)

func main() {
	var (
		configPath             string
		width, height          float64
		numHosts               int
		transmitRange          float64
		transmitSpeed          int
		scanInterval           float64
		ticks                  int
		placementSeed          int64
		snapshotPath           string
	)
	flag.StringVar(&configPath, "config", "", "settings surface JSON file (optional, overrides the -range/-speed/-scan flags)")
	flag.Float64Var(&width, "w", 100, "world width")
	flag.Float64Var(&height, "l", 100, "world length")
	flag.IntVar(&numHosts, "n", 50, "number of hosts")
	flag.Float64Var(&transmitRange, "range", 15, "transmitRange")
	flag.IntVar(&transmitSpeed, "speed", 1000, "transmitSpeed")
	flag.Float64Var(&scanInterval, "scan", 0, "scanInterval")
	flag.IntVar(&ticks, "ticks", 200, "number of update ticks to run")
	flag.Int64Var(&placementSeed, "placement-seed", 1, "seed for the initial random placement (not the class-wide jitter RNG)")
	flag.StringVar(&snapshotPath, "snapshot", "", "optional SVG path to render after the run")
	flag.Parse()

	cfg := core.DefaultConfig()
	var err error
	if configPath != "" {
		cfg, err = core.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	} else {
		cfg.Interfaces = []core.InterfaceGroup{{
			Type:          "T",
			TransmitRange: transmitRange,
			TransmitSpeed: transmitSpeed,
			ScanInterval:  scanInterval,
		}}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	log.Println("Building world...")
	ctx := core.NewContext()
	placement := rand.New(rand.NewSource(placementSeed))
	hosts := make([]*core.DTNHost, numHosts)
	for i := 0; i < numHosts; i++ {
		loc := core.Coord{X: placement.Float64() * width, Y: placement.Float64() * height}
		h := core.NewDTNHost(ctx, i, loc)
		for _, g := range cfg.Interfaces {
			iface, err := core.NewSimpleInterface(ctx, g.Type, g.TransmitRange, g.TransmitSpeed, g.ScanInterval, core.AlwaysActive, g.ActivenessOffsetJitter)
			if err != nil {
				log.Fatalf("interface: %v", err)
			}
			h.AddInterface(iface)
		}
		hosts[i] = h
	}

	w, err := core.NewWorld(ctx, cfg, hosts)
	if err != nil {
		log.Fatalf("world: %v", err)
	}

	log.Println("Running simulation...")
	sigCh := make(chan os.Signal, 5)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(2 * time.Second)
	defer tick.Stop()

	// Update and Snapshot both touch w.ctx's clock and connection arena
	// without locking, by design (the scheduling model is single-threaded
	// cooperative). So only the goroutine driving Update is ever allowed to
	// call Snapshot; it publishes each one over snapCh, and the reporting
	// loop below only ever reads off that channel, never calling into w
	// itself while Update may still be running concurrently.
	snapCh := make(chan core.Snapshot, 1)
	publish := func(s core.Snapshot) {
		select {
		case <-snapCh:
		default:
		}
		snapCh <- s
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < ticks; i++ {
			if w.IsCancelled() {
				return
			}
			w.Update(cfg.UpdateInterval)
			publish(w.Snapshot())
		}
	}()

	var last core.Snapshot
loop:
	for {
		select {
		case <-done:
			break loop
		case s := <-snapCh:
			last = s
		case t := <-tick.C:
			log.Printf("%s: t=%.1f connections=%d", t.Format(time.RFC1123), last.Time, last.Connections)
		case <-sigCh:
			w.Cancel()
		}
	}

	// The update goroutine has returned by now, so this final read is safe.
	snap := w.Snapshot()
	log.Printf("Done: run=%s t=%.1f hosts=%d connections=%d", snap.RunID, snap.Time, snap.Hosts, snap.Connections)

	if snapshotPath != "" {
		if err := render.Snapshot(snapshotPath, w, int(width), int(height)); err != nil {
			log.Printf("snapshot: %v", err)
		}
	}
}
