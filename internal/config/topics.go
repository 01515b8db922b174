package config

const (
	// TopicChunkEmbed is the NSQ topic for chunk embedding tasks published
	// after a processing run persists its chunks.
	TopicChunkEmbed = "chunk.embed"

	// ChannelEmbedWorker is the consumer channel for the embed worker.
	ChannelEmbedWorker = "backend"
)
