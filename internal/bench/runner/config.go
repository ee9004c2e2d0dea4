package runner

const (
	DefaultRuns        = 5
	DefaultTopK        = 100
	DefaultSampleSize  = 100
	DefaultInsertBatch = 50_000
	DefaultSeed        = 42
)

type Config struct {
	// Runs is how many times the sampled query batch is issued per
	// configuration.
	Runs int
	// TopK is the neighbor count requested per query and the recall
	// denominator.
	TopK int
	// SampleSize caps how many query vectors are drawn; the full query
	// set is used when it is smaller.
	SampleSize int
	// InsertBatch bounds the vectors sent per insert request.
	InsertBatch int
	// Seed drives query sampling, so runs repeat exactly.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		Runs:        DefaultRuns,
		TopK:        DefaultTopK,
		SampleSize:  DefaultSampleSize,
		InsertBatch: DefaultInsertBatch,
		Seed:        DefaultSeed,
	}
}

func (c Config) withDefaults() Config {
	if c.Runs <= 0 {
		c.Runs = DefaultRuns
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.SampleSize <= 0 {
		c.SampleSize = DefaultSampleSize
	}
	if c.InsertBatch <= 0 {
		c.InsertBatch = DefaultInsertBatch
	}
	return c
}
