package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/hupe1980/pkmgo"
	"github.com/hupe1980/pkmgo/knn"
	"github.com/hupe1980/pkmgo/mat32"
)

func main() {
	seed := int64(4711)
	dim := 64
	nKeys := 512
	kFinal := 10

	// Two codebooks of 512 keys each span a virtual space of 512^2 slots.
	retriever, err := pkmgo.New(dim, nKeys, pkmgo.WithSeed(seed))
	if err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewSource(seed))
	queries, _ := mat32.New(4, dim)
	data := queries.Raw()
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}

	result, err := retriever.Retrieve(context.Background(), queries, 16, 16, kFinal, knn.DistanceDotProduct)
	if err != nil {
		log.Fatal(err)
	}

	flat, err := retriever.FlatIndices(result)
	if err != nil {
		log.Fatal(err)
	}

	for row := 0; row < queries.Rows(); row++ {
		fmt.Printf("query %d:\n", row)
		for p := 0; p < result.K(); p++ {
			a, b := result.Pairs.Pair(row, p)
			fmt.Printf("  slot %6d (a=%3d, b=%3d) score=%.4f\n",
				flat.At(row, p), a, b, result.Scores.At(row, p))
		}
	}
}
