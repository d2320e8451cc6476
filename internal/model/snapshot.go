package model

// SnapshotRecord is a fetched balance row written to the JSONL snapshot.
type SnapshotRecord struct {
	Source    string `json:"source"`
	Token     string `json:"token"`
	Address   string `json:"address"`
	Balance   string `json:"balance"`
	FetchedAt string `json:"fetched_at"`
}
