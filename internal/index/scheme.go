package index

var (
	bProducts = []byte("products") // filename -> productBytes
	bOrder    = []byte("order")    // seq -> filename
	bIdxCat   = []byte("idx_cat")  // category -> sub-bucket(seq -> filename)
	bMeta     = []byte("meta")     // run metadata

	keySourceHash = []byte("source_hash")
	keyCount      = []byte("count")
)
