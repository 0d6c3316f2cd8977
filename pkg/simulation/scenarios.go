package simulation

// Scenario names produced by DefaultScenarios.
const (
	ScenarioNormal = "normal"
	ScenarioLeak   = "leak"
	ScenarioMisuse = "misuse"
)

// NormalScenario has no anomalies.
func NormalScenario() Scenario {
	return Scenario{Name: ScenarioNormal}
}

// LeakScenario injects a leak at node from 10:00 to 14:00.
func LeakScenario(node string) Scenario {
	return Scenario{
		Name: ScenarioLeak,
		Windows: []AnomalyWindow{
			{Type: Leak, Node: node, StartHour: 10, EndHour: 14, Severity: SeverityHigh},
		},
	}
}

// MisuseScenario injects excess demand at node from 18:00 to 20:00.
func MisuseScenario(node string) Scenario {
	return Scenario{
		Name: ScenarioMisuse,
		Windows: []AnomalyWindow{
			{Type: Misuse, Node: node, StartHour: 18, EndHour: 20, Severity: SeverityMedium},
		},
	}
}

// DefaultScenarios returns the normal, leak and misuse runs.
func DefaultScenarios(leakNode, misuseNode string) []Scenario {
	return []Scenario{NormalScenario(), LeakScenario(leakNode), MisuseScenario(misuseNode)}
}
