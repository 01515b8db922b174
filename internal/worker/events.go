package worker

// ChunkEmbedPayload is published on the chunk.embed topic for every chunk a
// processing run persists.
type ChunkEmbedPayload struct {
	ChunkID    string `json:"chunk_id"`
	ProjectID  string `json:"project_id"`
	AssetID    string `json:"asset_id"`
	Content    string `json:"content"`
	ChunkOrder int    `json:"chunk_order"`

	CorrelationID string `json:"correlation_id"`
}
