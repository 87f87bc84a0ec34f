package sandbox

import "testing"

func TestEveryIdResolves(t *testing.T) {
	table := NewTable()
	for i := 0; i < 256; i++ {
		d := table.Lookup(MaterialKind(i))
		if d == nil || d.Name == "" {
			t.Fatalf("material id %d did not resolve to a descriptor", i)
		}
	}
}

func TestCategoryRanges(t *testing.T) {
	cases := []struct {
		id   MaterialKind
		want Category
	}{
		{0, CategoryEmpty},
		{1, CategoryStatic},
		{31, CategoryStatic},
		{32, CategorySolid},
		{95, CategorySolid},
		{96, CategoryLiquid},
		{159, CategoryLiquid},
		{160, CategoryGas},
		{223, CategoryGas},
		{224, CategoryEntity},
		{255, CategoryEntity},
	}
	for _, c := range cases {
		if got := c.id.Category(); got != c.want {
			t.Fatalf("id %d categorized as %d, want %d", c.id, got, c.want)
		}
	}
	if MaterialWall.Movable() || MaterialKind(230).Movable() {
		t.Fatal("static and entity materials must not be movable")
	}
	if !MaterialSand.Movable() || !MaterialWater.Movable() {
		t.Fatal("solids and liquids must be movable")
	}
}

func TestUnregisteredIdUsesCategoryBase(t *testing.T) {
	table := NewTable()
	if got := table.Lookup(MaterialKind(70)).Name; got != "solid" {
		t.Fatalf("unregistered solid id resolved to %q, want category base", got)
	}
	if got := table.Lookup(MaterialKind(150)).Name; got != "liquid" {
		t.Fatalf("unregistered liquid id resolved to %q, want category base", got)
	}
}

func TestEffectiveDensity(t *testing.T) {
	table := NewTable()
	base := table.Lookup(MaterialWater).Density

	at := func(temp uint16) float64 { return table.EffectiveDensity(MaterialWater, temp) }

	if got := at(table.Lookup(MaterialWater).DefaultTemp); got != base {
		t.Fatalf("density at default temperature = %f, want base %f", got, base)
	}
	if at(350) >= base {
		t.Fatal("hot water must be less dense than at default temperature")
	}
	if at(280) <= base {
		t.Fatal("cold water must be denser than at default temperature")
	}

	// Extremes clamp to [0.2, 3.5] times base.
	if got := at(65535); got < base*0.2-1e-9 {
		t.Fatalf("extreme heat density %f fell below the clamp floor", got)
	}
	if got := at(0); got > base*3.5+1e-9 {
		t.Fatalf("extreme cold density %f exceeded the clamp ceiling", got)
	}

	// Static materials do not expand.
	if table.EffectiveDensity(MaterialWall, 5000) != table.Lookup(MaterialWall).Density {
		t.Fatal("static materials must keep their base density")
	}

	// Gases expand more than liquids for the same deviation.
	steamDefault := table.Lookup(MaterialSteam).Density
	steamHot := table.EffectiveDensity(MaterialSteam, table.Lookup(MaterialSteam).DefaultTemp+100)
	waterHot := table.EffectiveDensity(MaterialWater, table.Lookup(MaterialWater).DefaultTemp+100)
	if steamHot/steamDefault >= waterHot/base {
		t.Fatal("gas must expand more than liquid for the same temperature rise")
	}
}
