package layout_test

import (
	"fmt"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
)

func ExampleCompute() {
	t := family.NewTree()
	_, _ = t.AddPerson(family.Person{ID: "ada", Name: "Ada", Gender: family.GenderFemale, BirthYear: 1950})
	_, _ = t.AddPerson(family.Person{ID: "ben", Name: "Ben", Gender: family.GenderMale, BirthYear: 1975})
	_, _ = t.AddPerson(family.Person{ID: "cleo", Name: "Cleo", Gender: family.GenderFemale, BirthYear: 1978})
	_ = t.AddRelationship("ada", "ben", family.RelParent)
	_ = t.AddRelationship("ada", "cleo", family.RelParent)

	nodes, _ := layout.Compute(t, layout.DefaultSettings(), "ada")
	for _, n := range nodes {
		fmt.Printf("%s (%g, %g)\n", n.ID, n.X, n.Y)
	}
	// Output:
	// ada (260, 80)
	// ben (140, 224)
	// cleo (380, 224)
}
