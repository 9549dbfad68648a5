package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/kintree/pkg/graph"
)

func ExampleReadTree() {
	doc := `{
	  "people": [
	    {"id": "ada", "name": "Ada", "gender": "female", "birthYear": 1950},
	    {"id": "ben", "name": "Ben", "gender": "male", "birthYear": 1975}
	  ],
	  "edges": [{"fromId": "ada", "toId": "ben", "type": "parent"}]
	}`
	t, err := graph.ReadTree(strings.NewReader(doc))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("People:", t.IDs())
	fmt.Println("Parents of ben:", t.ParentsOf("ben"))
	// Output:
	// People: [ada ben]
	// Parents of ben: [ada]
}
