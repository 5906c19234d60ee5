package graph_test

import (
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/person"
)

func ExampleWriteSnapshot() {
	snap := graph.NewSnapshot("wikibase", []person.Person{
		{ID: "Q1", Name: "John Smith", FatherID: "Q3"},
	}, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC))

	if err := graph.WriteSnapshot(snap, os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "version": 1,
	//   "source": "wikibase",
	//   "fetched_at": "2026-01-02T15:04:05Z",
	//   "people": [
	//     {
	//       "id": "Q1",
	//       "name": "John Smith",
	//       "father_id": "Q3"
	//     }
	//   ]
	// }
}

func ExampleUnmarshalSnapshot() {
	snap, err := graph.UnmarshalSnapshot([]byte(`[{"id":"Q1","name":"John"},{"id":"Q2","father_id":"Q1"}]`))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	repo := snap.Repository()
	for _, c := range repo.ChildrenOf("Q1") {
		fmt.Println(c.ID)
	}
	// Output:
	// Q2
}
