package compiler

import (
	"github.com/dd0wney/cluso-hydrograph/pkg/logging"
)

// applyDeferred attaches the Elevation and Zone lines collected during the
// topology phase, in file order.
func (b *build) applyDeferred() error {
	for _, d := range b.deferred {
		id := d.args[0]
		if !b.g.HasNode(id) {
			b.warn(d.file, d.line, WarnUnknownNode, "%s node %s not found in graph", d.keyword, id)
			continue
		}

		switch d.keyword {
		case "Elevation":
			meters, err := d.float(1)
			if err != nil {
				return err
			}
			if err := b.g.SetElevation(id, meters); err != nil {
				return err
			}
		case "Zone":
			if err := b.g.SetZone(id, d.args[1]); err != nil {
				return err
			}
		}
	}
	b.deferred = nil
	return nil
}

// loadDemands attaches baseline demand to existing nodes.
func (b *build) loadDemands() error {
	directives, err := b.read(DemandFile)
	if err != nil {
		return err
	}

	for _, d := range directives {
		if d.keyword != "Demand" || !b.requireArgs(d, 2) {
			continue
		}
		value, err := d.float(1)
		if err != nil {
			return err
		}
		id := d.args[0]
		if !b.g.HasNode(id) {
			b.warn(d.file, d.line, WarnUnknownNode, "Demand node %s not found in graph", id)
			continue
		}
		if err := b.g.SetDemand(id, value); err != nil {
			return err
		}
		b.stats.Demands++
	}

	b.c.logger.Debug("demands attached", logging.Count(b.stats.Demands))
	return nil
}

// loadSensors attaches sensor kinds to existing nodes.
func (b *build) loadSensors() error {
	directives, err := b.read(SensorFile)
	if err != nil {
		return err
	}

	for _, d := range directives {
		if d.keyword != "Sensor" || !b.requireArgs(d, 2) {
			continue
		}
		id := d.args[0]
		if !b.g.HasNode(id) {
			b.warn(d.file, d.line, WarnUnknownNode, "Sensor node %s not found in graph", id)
			continue
		}
		if err := b.g.SetSensor(id, d.args[1]); err != nil {
			return err
		}
		b.stats.Sensors++
	}

	b.c.logger.Debug("sensors attached", logging.Count(b.stats.Sensors))
	return nil
}
