package domain

// PrefixReport is the deletion outcome of one prefix
type PrefixReport struct {
	Bucket  string   `json:"bucket"`
	Prefix  string   `json:"prefix"`
	Deleted int      `json:"deleted"`
	Batches int      `json:"batches"`
	Errors  []string `json:"errors,omitempty"`
}

// DeletionReport aggregates every prefix of an asset tree
type DeletionReport struct {
	AssetID    int64          `json:"assetId"`
	Deleted    int            `json:"deleted"`
	Errors     []string       `json:"errors"`
	Prefixes   []PrefixReport `json:"prefixes"`
	RowDeleted bool           `json:"rowDeleted"`
	Tombstoned bool           `json:"tombstoned"`
}

// Clean reports whether every prefix was deleted without error
func (r *DeletionReport) Clean() bool {
	return len(r.Errors) == 0
}

// ObjectPage is one listing page
type ObjectPage struct {
	Keys                  []string
	NextContinuationToken string
	Truncated             bool
}
