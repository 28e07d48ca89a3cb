package types

// ShardStatistics summarizes how many shards took part in an operation.
type ShardStatistics struct {
	Total      int            `json:"total"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Skipped    *int           `json:"skipped,omitempty"`
	Failures   []ShardFailure `json:"failures,omitempty"`
}

// ShardFailure describes one failed shard.
type ShardFailure struct {
	Index  string     `json:"index,omitempty"`
	Node   string     `json:"node,omitempty"`
	Shard  int        `json:"shard"`
	Status string     `json:"status,omitempty"`
	Reason ErrorCause `json:"reason"`
}
