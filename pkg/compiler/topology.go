package compiler

import (
	"strconv"

	"github.com/dd0wney/cluso-hydrograph/pkg/logging"
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// loadTopology reads the base network: Source, Tank, Junction, Pipe and Pump
// declarations. Elevation and Zone lines are parsed here but applied after
// template expansion so they can target qualified template nodes.
func (b *build) loadTopology() error {
	directives, err := b.read(TopologyFile)
	if err != nil {
		return err
	}

	for _, d := range directives {
		switch d.keyword {
		case "Source", "Tank", "Junction":
			if !b.requireArgs(d, 1) {
				continue
			}
			kind, _ := network.ParseNodeKind(d.keyword)
			if _, err := b.g.AddNode(network.Node{ID: d.args[0], Kind: kind}); err != nil {
				return err
			}

		case "Pipe":
			if !b.requireArgs(d, 2) {
				continue
			}
			e := network.Edge{From: d.args[0], To: d.args[1], Kind: network.Pipe}
			if len(d.args) >= 3 {
				if length, err := strconv.ParseFloat(d.args[2], 64); err == nil {
					e.Pipe.LengthM = network.Float(length)
				} else {
					b.warn(d.file, d.line, WarnBadOperand, "Pipe %s %s: ignoring length %q", d.args[0], d.args[1], d.args[2])
				}
			}
			if _, err := b.g.AddEdge(e); err != nil {
				return err
			}

		case "Pump":
			if !b.requireArgs(d, 3) {
				continue
			}
			e := network.Edge{
				From: d.args[1],
				To:   d.args[2],
				Kind: network.Pump,
				Pump: network.PumpAttrs{PumpID: d.args[0]},
			}
			if len(d.args) >= 4 {
				e.Pump.Curve = d.args[3]
			}
			if _, err := b.g.AddEdge(e); err != nil {
				return err
			}

		case "Elevation":
			if !b.requireArgs(d, 2) {
				continue
			}
			if _, err := d.float(1); err != nil {
				return err
			}
			b.deferred = append(b.deferred, d)

		case "Zone":
			if !b.requireArgs(d, 2) {
				continue
			}
			b.deferred = append(b.deferred, d)
		}
	}

	b.c.logger.Debug("topology loaded",
		logging.File(TopologyFile),
		logging.Int("nodes", b.g.NodeCount()),
		logging.Int("edges", b.g.EdgeCount()),
		logging.Int("deferred", len(b.deferred)),
	)
	return nil
}
