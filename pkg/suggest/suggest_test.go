package suggest

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/kintree/pkg/family"
)

type person struct {
	id, name string
	year     int
}

func tree(t *testing.T, people []person, edges ...family.Edge) *family.Tree {
	t.Helper()
	tr := family.NewTree()
	for _, p := range people {
		if _, err := tr.AddPerson(family.Person{ID: p.id, Name: p.name, Gender: family.GenderFemale, BirthYear: p.year}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if err := tr.AddRelationship(e.From, e.To, e.Type); err != nil {
			t.Fatal(err)
		}
	}
	return tr
}

func summary(ss []Suggestion) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%s:%s:%s%v", s.PersonID, s.Kind, s.Priority, s.RelatedIDs)
	}
	return out
}

func TestMissingParents(t *testing.T) {
	tr := tree(t, []person{{"a", "A", 1950}, {"b", "B", 1975}},
		family.Edge{From: "a", To: "b", Type: family.RelParent})

	got := summary(Compute(tr, Options{}))
	want := []string{"a:missingParent:high[]", "b:missingParent:medium[]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compute = %v, want %v", got, want)
	}
}

func TestBothParentsKnown(t *testing.T) {
	tr := tree(t, []person{{"m", "M", 1950}, {"f", "F", 1950}, {"c", "C", 1980}},
		family.Edge{From: "m", To: "c", Type: family.RelParent},
		family.Edge{From: "f", To: "c", Type: family.RelParent})
	if got := ForPerson(Compute(tr, Options{}), "c"); len(got) != 0 {
		t.Errorf("child with two parents flagged: %v", summary(got))
	}
}

func TestAgeAnomalies(t *testing.T) {
	tr := tree(t,
		[]person{{"p", "P", 1950}, {"c", "C", 1955}, {"x", "X", 1900}, {"y", "Y", 1950}},
		family.Edge{From: "p", To: "c", Type: family.RelParent},
		family.Edge{From: "y", To: "x", Type: family.RelSpouse},
	)
	got := summary(Compute(tr, Options{}))
	want := []string{
		"p:missingParent:high[]",
		"x:missingParent:high[]",
		"y:missingParent:high[]",
		"c:missingParent:medium[]",
		"c:ageAnomaly:medium[p]",
		"x:ageAnomaly:medium[y]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compute =\n%v\nwant\n%v", got, want)
	}
}

func TestAgeOptions(t *testing.T) {
	tr := tree(t, []person{{"p", "P", 1950}, {"c", "C", 1975}},
		family.Edge{From: "p", To: "c", Type: family.RelParent})

	tests := []struct {
		name string
		opts Options
		want int
	}{
		{"defaults", Options{}, 0},
		{"strict", Options{MinParentAgeGap: 30}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := 0
			for _, s := range Compute(tr, tt.opts) {
				if s.Kind == KindAgeAnomaly {
					n++
				}
			}
			if n != tt.want {
				t.Errorf("age anomalies = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestPossibleDuplicates(t *testing.T) {
	tr := tree(t, []person{
		{"a", "José Núñez", 1900},
		{"b", "  jose   NUNEZ", 1900},
		{"c", "Jose Nunez", 1901},
	})
	var dups []string
	for _, s := range Compute(tr, Options{}) {
		if s.Kind == KindPossibleDuplicate {
			dups = append(dups, fmt.Sprintf("%s%v", s.PersonID, s.RelatedIDs))
			if s.Priority != PriorityLow || s.MessageKey != MsgSameNameAndYear {
				t.Errorf("unexpected duplicate suggestion %+v", s)
			}
		}
	}
	if want := []string{"a[b]", "b[a]"}; !reflect.DeepEqual(dups, want) {
		t.Errorf("duplicates = %v, want %v", dups, want)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  José   Núñez ", "jose nunez"},
		{"Ångström", "angstrom"},
		{"ANNA\tMARIA", "anna maria"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComputeDoesNotMutate(t *testing.T) {
	tr := tree(t, []person{{"a", "A", 1950}})
	v := tr.Version()
	_ = Compute(tr, Options{})
	if tr.Version() != v || tr.Len() != 1 {
		t.Error("Compute modified the tree")
	}
}
