package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/chainkit/ledgerdb/lib/db"
)

// RunDatabaseBenchmarks runs all benchmarks for a db.Database implementation.
func RunDatabaseBenchmarks(b *testing.B, name string, factory db.DatabaseFactory) {

	b.Run("Insert", func(b *testing.B) {
		benchmarkInsert(b, factory())
	})

	b.Run("InsertExisting", func(b *testing.B) {
		benchmarkInsertExisting(b, factory())
	})

	b.Run("InsertLargeValue", func(b *testing.B) {
		benchmarkInsertLargeValue(b, factory())
	})

	b.Run("InsertBatch", func(b *testing.B) {
		benchmarkInsertBatch(b, factory())
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("GetBatch", func(b *testing.B) {
		benchmarkGetBatch(b, factory())
	})

	b.Run("Contains", func(b *testing.B) {
		benchmarkContains(b, factory())
	})

	b.Run("Contains(not)", func(b *testing.B) {
		benchmarkContainsNot(b, factory())
	})

	b.Run("Remove", func(b *testing.B) {
		benchmarkRemove(b, factory())
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, factory())
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func benchKey(i int) []byte {
	return []byte(fmt.Sprintf("bench-key-%d", i))
}

func benchValue(i int) []byte {
	return []byte(fmt.Sprintf("bench-value-%d", i))
}

// fill preloads the store with n sequential records.
func fill(b *testing.B, database db.Database, n int) {
	ctx := context.Background()
	for i := 0; i < n; i++ {
		if err := database.Insert(ctx, db.CategoryBlock, benchKey(i), benchValue(i)); err != nil {
			b.Fatalf("preload failed: %v", err)
		}
	}
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkInsert(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = database.Insert(ctx, db.CategoryBlock, benchKey(i), benchValue(i))
	}
}

func benchmarkInsertExisting(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()
	key := benchKey(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = database.Insert(ctx, db.CategoryBlock, key, benchValue(i))
	}
}

func benchmarkInsertLargeValue(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	value := make([]byte, 1024*1024)
	for i := range value {
		value[i] = byte(i % 256)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = database.Insert(ctx, db.CategoryBlock, benchKey(i), value)
	}
}

func benchmarkInsertBatch(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	const batchSize = 100
	keys := make([][]byte, batchSize)
	values := make([][]byte, batchSize)
	for i := 0; i < batchSize; i++ {
		keys[i] = benchKey(i)
		values[i] = benchValue(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = database.InsertBatch(ctx, db.CategoryBlock, keys, values)
	}
}

func benchmarkGet(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	const numKeys = 10_000
	fill(b, database, numKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = database.Get(ctx, db.CategoryBlock, benchKey(i%numKeys))
	}
}

func benchmarkGetBatch(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	const numKeys = 10_000
	const batchSize = 100
	fill(b, database, numKeys)

	keys := make([][]byte, batchSize)
	for i := 0; i < batchSize; i++ {
		keys[i] = benchKey(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = database.GetBatch(ctx, db.CategoryBlock, keys)
	}
}

func benchmarkContains(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	const numKeys = 10_000
	fill(b, database, numKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = database.Contains(ctx, db.CategoryBlock, benchKey(i%numKeys))
	}
}

func benchmarkContainsNot(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = database.Contains(ctx, db.CategoryBlock, benchKey(i))
	}
}

func benchmarkRemove(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	fill(b, database, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = database.Remove(ctx, db.CategoryBlock, benchKey(i))
	}
}

func benchmarkMixedUsage(b *testing.B, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	const numKeys = 1_000
	fill(b, database, numKeys)
	categories := db.Categories()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c := categories[i%len(categories)]
			key := benchKey(i % numKeys)
			switch i % 10 {
			case 0:
				_ = database.Remove(ctx, c, key)
			case 1, 2, 3:
				_ = database.Insert(ctx, c, key, benchValue(i))
			default:
				_, _, _ = database.Get(ctx, c, key)
			}
			i++
		}
	})
}
