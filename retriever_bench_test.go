package pkmgo

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/pkmgo/knn"
	"github.com/hupe1980/pkmgo/knn/dense"
	"github.com/hupe1980/pkmgo/testutil"
)

func BenchmarkRetrieve(b *testing.B) {
	rng := testutil.NewRNG(4711)
	ctx := context.Background()

	for _, nKeys := range []int{128, 512} {
		r, err := New(64, nKeys,
			WithSeed(42),
			WithBackend(dense.New()),
			WithLogger(NoopLogger()),
		)
		if err != nil {
			b.Fatal(err)
		}
		queries := rng.GaussianMatrix(32, 64)

		b.Run(fmt.Sprintf("keys=%d", nKeys), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := r.Retrieve(ctx, queries, 16, 16, 10, knn.DistanceDotProduct); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
