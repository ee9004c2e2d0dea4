package dataset

// Source names the path that supplied the dataset for a run. The original
// pipeline stays runnable offline, but the chosen path is always surfaced
// in logs and in the results document.
type Source string

const (
	SourceCache     Source = "cache"
	SourceDownload  Source = "download"
	SourceSynthetic Source = "synthetic"
)

// Dataset holds the three arrays a benchmark run consumes: base vectors to
// index, query vectors, and the true top neighbors of each query.
type Dataset struct {
	Base        [][]float32
	Queries     [][]float32
	GroundTruth [][]int32
	Dim         int
	Source      Source
}

const (
	baseFile        = "sift_base.fvecs"
	queryFile       = "sift_query.fvecs"
	groundTruthFile = "sift_groundtruth.ivecs"
)

// CacheFiles lists the file names a complete cache directory holds.
func CacheFiles() []string {
	return []string{baseFile, queryFile, groundTruthFile}
}
