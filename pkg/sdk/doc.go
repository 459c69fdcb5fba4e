// Package overlap provides in-process pairwise document similarity.
//
// Every unordered pair of documents is scored by cosine similarity of
// TF-IDF vectors built from that pair alone. Scores lie in [0, 1]; identical
// texts score 1 and texts with no shared terms score 0.
//
//	client, _ := overlap.New(overlap.WithWorkers(4))
//	res, err := client.Compare(ctx, []overlap.Document{
//	    {ID: "alice", Text: essayA},
//	    {ID: "bob", Text: essayB},
//	    {ID: "carol", Text: essayC},
//	})
//	for _, p := range res.Above(0.8) {
//	    fmt.Printf("%s ~ %s: %.2f\n", p.A, p.B, p.Score)
//	}
//
// A pair that cannot be scored is reported with Score 0 and Degraded set;
// the rest of the run continues. Duplicate or empty document ids fail the
// whole call with ErrInvalidDocument.
package overlap
