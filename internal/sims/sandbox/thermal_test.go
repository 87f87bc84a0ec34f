package sandbox

import "testing"

func TestEmptyCellsPassThrough(t *testing.T) {
	world := emptyWorld(8, 8)
	world.Ambient()[0] = AmbientCell{Temp: 5000}

	world.stepThermal()

	if got := world.Grid()[0]; got.Type != MaterialEmpty || got.Temp != 0 {
		t.Fatalf("empty cell must pass through unchanged, got %+v", got)
	}
}

func TestAmbientExchangeAttenuatedByCapacity(t *testing.T) {
	world := emptyWorld(8, 8)
	// Same start temperature, hot ambient above both. Lava (capacity 0.95)
	// must move less than snow (capacity 0.2).
	world.SetCell(1, 1, Cell{Type: MaterialLava, Temp: 500})
	world.SetCell(5, 5, Cell{Type: MaterialSnow, Temp: 500})
	for i := range world.Ambient() {
		world.Ambient()[i].Temp = 1000
	}

	world.stepThermal()

	lava := world.Grid()[1*8+1].Temp
	snow := world.Grid()[5*8+5].Temp
	if lava <= 500 || snow <= 500 {
		t.Fatalf("both cells must warm toward the ambient field, got lava=%d snow=%d", lava, snow)
	}
	if lava >= snow {
		t.Fatalf("high-capacity lava must exchange less than snow: lava=%d snow=%d", lava, snow)
	}
}

func TestNeighborConductionRates(t *testing.T) {
	// Two sand grains side by side equalize faster than sand next to wall.
	same := emptyWorld(8, 8)
	same.SetCell(2, 2, Cell{Type: MaterialSand, Temp: 1000})
	same.SetCell(3, 2, Cell{Type: MaterialSand, Temp: 200})
	for i := range same.Ambient() {
		same.Ambient()[i].Temp = 600
	}

	mixed := emptyWorld(8, 8)
	mixed.SetCell(2, 2, Cell{Type: MaterialSand, Temp: 1000})
	mixed.SetCell(3, 2, Cell{Type: MaterialWall, Temp: 200})
	for i := range mixed.Ambient() {
		mixed.Ambient()[i].Temp = 600
	}

	same.stepThermal()
	mixed.stepThermal()

	sameHot := same.Grid()[2*8+2].Temp
	mixedHot := mixed.Grid()[2*8+2].Temp
	if sameHot >= mixedHot {
		t.Fatalf("same-material contact must conduct faster: same=%d mixed=%d", sameHot, mixedHot)
	}
}

func TestThermalClampsToRange(t *testing.T) {
	world := emptyWorld(4, 4)
	world.SetCell(1, 1, Cell{Type: MaterialSnow, Temp: 100})
	for i := range world.Ambient() {
		world.Ambient()[i].Temp = 0
	}

	for i := 0; i < 50; i++ {
		world.stepThermal()
	}
	if got := world.Grid()[1*4+1].Temp; got > 100 {
		t.Fatalf("cooling toward zero ambient must not rise, got %d", got)
	}
}

func TestThermalPreservesMaterials(t *testing.T) {
	world := emptyWorld(8, 8)
	world.SetCell(1, 1, Cell{Type: MaterialLava, Temp: 1500})
	world.SetCell(2, 1, Cell{Type: MaterialSand, Temp: 298})

	world.stepThermal()

	if world.Grid()[1*8+1].Type != MaterialLava || world.Grid()[1*8+2].Type != MaterialSand {
		t.Fatal("thermal exchange must never change material ids")
	}
}
