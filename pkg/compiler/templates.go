package compiler

import (
	"github.com/dd0wney/cluso-hydrograph/pkg/logging"
)

// loadTemplates parses the template library. Block structure problems are
// recoverable: a Template line inside an open block closes and registers the
// open block, and an unterminated block is registered at end of file.
func (b *build) loadTemplates() error {
	directives, err := b.read(TemplatesFile)
	if err != nil {
		return err
	}

	var open *Template
	closeBlock := func() {
		b.register(open)
		open = nil
	}

	for _, d := range directives {
		switch d.keyword {
		case "Template":
			if !b.requireArgs(d, 1) {
				continue
			}
			if open != nil {
				b.warn(d.file, d.line, WarnTemplateBlock,
					"Template %s opened before EndTemplate of %s", d.args[0], open.Name)
				closeBlock()
			}
			open = &Template{Name: d.args[0]}

		case "Node":
			if !b.requireArgs(d, 1) {
				continue
			}
			if open == nil {
				b.warn(d.file, d.line, WarnTemplateBlock, "Node %s outside a Template block", d.args[0])
				continue
			}
			open.addNode(d.args[0])

		case "Edge":
			if !b.requireArgs(d, 2) {
				continue
			}
			if open == nil {
				b.warn(d.file, d.line, WarnTemplateBlock,
					"Edge %s %s outside a Template block", d.args[0], d.args[1])
				continue
			}
			open.addNode(d.args[0])
			open.addNode(d.args[1])
			open.Edges = append(open.Edges, TemplateEdge{From: d.args[0], To: d.args[1]})

		case "EndTemplate":
			if open == nil {
				b.warn(d.file, d.line, WarnTemplateBlock, "EndTemplate without Template")
				continue
			}
			closeBlock()
		}
	}

	if open != nil {
		b.warn(TemplatesFile, 0, WarnTemplateBlock, "Template %s not terminated by EndTemplate", open.Name)
		closeBlock()
	}

	b.stats.TemplatesLoaded = len(b.templates)
	b.c.logger.Debug("template library loaded", logging.Count(len(b.templates)))
	return nil
}

func (b *build) register(t *Template) {
	if _, exists := b.templates[t.Name]; exists {
		b.c.logger.Debug("template redefined", logging.String("template", t.Name))
	}
	b.templates[t.Name] = t
}

// applyTemplates expands every Apply directive in file order.
func (b *build) applyTemplates() error {
	directives, err := b.read(ApplicationFile)
	if err != nil {
		return err
	}

	for _, d := range directives {
		if d.keyword != "Apply" || !b.requireArgs(d, 2) {
			continue
		}
		name, attach := d.args[0], d.args[1]

		t, ok := b.templates[name]
		if !ok {
			b.warn(d.file, d.line, WarnUnknownTemplate, "unknown template %s, Apply at %s ignored", name, attach)
			b.c.metrics.RecordTemplateExpansion(name, "unknown_template")
			continue
		}

		exp, err := Expand(b.g, t, attach)
		if err != nil {
			return err
		}

		b.stats.Applications++
		b.stats.ExpandedNodes += len(exp.Nodes)
		b.stats.ExpandedEdges += exp.Edges

		if exp.Root == "" {
			b.warn(d.file, d.line, WarnNoTemplateRoot,
				"template %s has no %s or %s node, %s left disconnected", name, RootFloorInlet, RootRiser, attach)
			b.c.metrics.RecordTemplateExpansion(name, "no_root")
			continue
		}
		b.c.metrics.RecordTemplateExpansion(name, "expanded")
	}

	b.c.logger.Debug("templates applied",
		logging.Int("applications", b.stats.Applications),
		logging.Int("expanded_nodes", b.stats.ExpandedNodes),
	)
	return nil
}
