// Package scaffold generates DSL datasets for synthetic high-rise buildings.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
	"github.com/dd0wney/cluso-hydrograph/pkg/compiler"
)

// MaxFloors is the height covered by the floor bands.
const MaxFloors = 160

// FloorsPerZone is the number of floors fed by one tank and riser.
const FloorsPerZone = 40

var ErrInvalidTower = errors.New("invalid tower")

type unit struct {
	name   string
	demand float64 // 0 means no Demand directive
}

type floorTemplate struct {
	name  string
	units []unit
}

func numbered(prefix string, n int, demand float64) []unit {
	units := make([]unit, n)
	for i := range units {
		units[i] = unit{name: prefix + strconv.Itoa(i+1), demand: demand}
	}
	return units
}

// band assigns a template to floors [first, last].
type band struct {
	first, last int
	tmpl        floorTemplate
}

var bands = []band{
	{1, 20, floorTemplate{"LobbyRetail", []unit{{"RestroomM", 50}, {"RestroomF", 50}, {"Retail1", 0}, {"Retail2", 0}}}},
	{21, 60, floorTemplate{"HotelFloor", numbered("Bath", 20, 100)}},
	{61, 100, floorTemplate{"OfficeFloor", []unit{{"Kitchen", 80}, {"RestroomBlock", 200}}}},
	{101, 140, floorTemplate{"ResidentialFloor", numbered("Apt", 8, 150)}},
	{141, 150, floorTemplate{"LuxuryHotel", numbered("Suite", 10, 250)}},
	{151, 160, floorTemplate{"ObsRestaurant", []unit{{"Kitchen", 300}, {"PublicRestroom", 100}}}},
}

func bandFor(floor int) band {
	for _, b := range bands {
		if floor >= b.first && floor <= b.last {
			return b
		}
	}
	return bands[len(bands)-1]
}

// Tower describes a building with a basement sump, one pumped break tank per
// zone and a downfeed riser per zone. The top zone's tank is RoofTank.
type Tower struct {
	Floors      int
	FloorHeight float64 // meters
}

// DefaultTower is the full 160 floor building.
func DefaultTower() Tower {
	return Tower{Floors: MaxFloors, FloorHeight: 4}
}

// Validate checks the tower dimensions.
func (t Tower) Validate() error {
	if t.Floors < 1 || t.Floors > MaxFloors {
		return fmt.Errorf("%w: floors must be in [1, %d], got %d", ErrInvalidTower, MaxFloors, t.Floors)
	}
	if t.FloorHeight <= 0 {
		return fmt.Errorf("%w: floor height must be positive", ErrInvalidTower)
	}
	return nil
}

// Zones is the number of pressure zones.
func (t Tower) Zones() int {
	return (t.Floors + FloorsPerZone - 1) / FloorsPerZone
}

func zoneLetter(z int) string {
	return string(rune('A' + z - 1))
}

// Tank returns the break tank feeding zone z (1-based).
func (t Tower) Tank(z int) string {
	if z == t.Zones() {
		return "RoofTank"
	}
	return "BreakTank" + strconv.Itoa(z)
}

// Riser returns the downfeed riser of zone z.
func (t Tower) Riser(z int) string {
	return "Zone" + zoneLetter(z) + "_Riser"
}

// Inlet returns the inlet node of a floor.
func Inlet(floor int) string {
	return "Floor" + strconv.Itoa(floor) + "_Inlet"
}

func (t Tower) zoneOf(floor int) int {
	return (floor-1)/FloorsPerZone + 1
}

// topFloor is the floor housing zone z's tank.
func (t Tower) topFloor(z int) int {
	return min(z*FloorsPerZone, t.Floors)
}

func (t Tower) elevation(floor int) string {
	return strconv.FormatFloat(float64(floor)*t.FloorHeight, 'f', -1, 64)
}

// Files renders the five DSL files keyed by their file names.
func (t Tower) Files() (map[string][]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	var topo, tmpls, apps, demands, sensors strings.Builder
	zones := t.Zones()

	topo.WriteString("Source MunicipalMain\nTank BasementSump\nPipe MunicipalMain BasementSump\n")
	topo.WriteString("Elevation MunicipalMain 0\nElevation BasementSump -5\n")
	prev := "BasementSump"
	for z := 1; z <= zones; z++ {
		tank, riser := t.Tank(z), t.Riser(z)
		fmt.Fprintf(&topo, "Tank %s\n", tank)
		fmt.Fprintf(&topo, "Pump Pump%s %s %s\n", zoneLetter(z), prev, tank)
		fmt.Fprintf(&topo, "Pipe %s %s\n", tank, riser)
		fmt.Fprintf(&topo, "Elevation %s %s\n", tank, t.elevation(t.topFloor(z)))
		fmt.Fprintf(&topo, "Elevation %s %s\n", riser, t.elevation(t.topFloor(z)))
		fmt.Fprintf(&topo, "Zone %s ZONE_%s\n", riser, zoneLetter(z))
		prev = tank
	}

	used := make(map[string]bool)
	for floor := 1; floor <= t.Floors; floor++ {
		z := t.zoneOf(floor)
		inlet := Inlet(floor)
		fmt.Fprintf(&topo, "Pipe %s %s\n", t.Riser(z), inlet)
		fmt.Fprintf(&topo, "Elevation %s %s\n", inlet, t.elevation(floor))
		fmt.Fprintf(&topo, "Zone %s ZONE_%s\n", inlet, zoneLetter(z))

		tmpl := bandFor(floor).tmpl
		used[tmpl.name] = true
		fmt.Fprintf(&apps, "Apply %s %s\n", tmpl.name, inlet)
		for _, u := range tmpl.units {
			if u.demand > 0 {
				fmt.Fprintf(&demands, "Demand %s %s\n",
					compiler.QualifiedID(inlet, u.name), strconv.FormatFloat(u.demand, 'f', -1, 64))
			}
		}
	}

	for _, b := range bands {
		if !used[b.tmpl.name] {
			continue
		}
		fmt.Fprintf(&tmpls, "Template %s\nNode %s\n", b.tmpl.name, compiler.RootRiser)
		for _, u := range b.tmpl.units {
			fmt.Fprintf(&tmpls, "Node %s\nEdge %s %s\n", u.name, compiler.RootRiser, u.name)
		}
		tmpls.WriteString("EndTemplate\n\n")
	}

	sensors.WriteString("Sensor MunicipalMain Flow\nSensor BasementSump Level\n")
	for z := 1; z <= zones; z++ {
		fmt.Fprintf(&sensors, "Sensor %s Level\n", t.Tank(z))
		fmt.Fprintf(&sensors, "Sensor %s Flow\n", t.Riser(z))
	}
	for z := 1; z <= zones; z++ {
		bottom := (z-1)*FloorsPerZone + 1
		fmt.Fprintf(&sensors, "Sensor %s Pressure\n", Inlet(bottom))
		if top := t.topFloor(z); top != bottom {
			fmt.Fprintf(&sensors, "Sensor %s Pressure\n", Inlet(top))
		}
	}

	return map[string][]byte{
		compiler.TopologyFile:    []byte(topo.String()),
		compiler.TemplatesFile:   []byte(tmpls.String()),
		compiler.ApplicationFile: []byte(apps.String()),
		compiler.DemandFile:      []byte(demands.String()),
		compiler.SensorFile:      []byte(sensors.String()),
	}, nil
}

// Write stores the dataset under prefix and returns the written keys in
// file-name order.
func Write(ctx context.Context, store artifact.Store, prefix string, t Tower) ([]string, error) {
	files, err := t.Files()
	if err != nil {
		return nil, err
	}
	names := []string{compiler.TopologyFile, compiler.TemplatesFile, compiler.ApplicationFile, compiler.DemandFile, compiler.SensorFile}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		key := artifact.Key(prefix, name)
		if err := store.Put(ctx, key, files[name]); err != nil {
			return keys, fmt.Errorf("failed to write %s: %w", name, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
