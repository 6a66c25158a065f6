package main

import (
	"fmt"
	"log"

	"github.com/suRF-dev/gosurf/filter"
)

func main() {
	rawKeys := [][]byte{
		[]byte("f"),
		[]byte("far"),
		[]byte("fas"),
		[]byte("fast"),
		[]byte("fat"),
		[]byte("s"),
		[]byte("top"),
		[]byte("toy"),
		[]byte("trie"),
		[]byte("trip"),
		[]byte("try"),
	}

	f, err := filter.New(rawKeys, filter.Options{})
	if err != nil {
		log.Fatalf("building filter: %v", err)
	}

	fmt.Printf("built a filter over %d keys, height %d, dense/sparse cutoff at level %d\n",
		len(rawKeys), f.Height(), f.CutoffLevel())

	fmt.Println("\npoint lookups:")
	for _, probe := range [][]byte{[]byte("fas"), []byte("trie"), []byte("farm"), []byte("toyz")} {
		fmt.Printf("\tcontains(%q) = %v\n", probe, f.Contains(probe))
	}

	fmt.Println("\nrange queries:")
	ranges := []struct {
		lo, hi []byte
	}{
		{[]byte("fa"), []byte("fz")},
		{[]byte("toz"), []byte("trz")},
		{[]byte("x"), []byte("z")},
	}
	for _, r := range ranges {
		fmt.Printf("\trangeOverlaps(%q, %q) = %v\n", r.lo, r.hi, f.RangeOverlaps(r.lo, true, r.hi, true))
	}

	fmt.Println("\nforward iteration from \"fas\":")
	it := f.Iterator()
	if it.MoveToGreaterOrEqual([]byte("fas"), true) {
		for {
			key, err := it.Key()
			if err != nil {
				break
			}
			fmt.Printf("\t%s\n", key)
			if !it.Next() {
				break
			}
		}
	}

	blob := f.Serialize()
	fmt.Printf("\nserialized size: %d bytes\n", len(blob))

	restored, err := filter.Deserialize(blob)
	if err != nil {
		log.Fatalf("deserializing filter: %v", err)
	}
	fmt.Printf("round-tripped contains(\"fast\") = %v\n", restored.Contains([]byte("fast")))
}
